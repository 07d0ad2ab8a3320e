package tui

import (
	"context"
	"time"

	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	handler "github.com/RoyceAzure/lab/pos/internal/handler/command"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultTimeout = 10 * time.Second

type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd cmd_model.Command) (handler.Outcome, error)
}

// outcomeMsg 非同步命令完成後送回 Update
type outcomeMsg struct {
	cmdType cmd_model.CommandType
	out     handler.Outcome
	err     error
}

func dispatchCmd(d Dispatcher, timeout time.Duration, cmd cmd_model.Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := d.HandleCommand(ctx, cmd)
		return outcomeMsg{cmdType: cmd.Type(), out: out, err: err}
	}
}

// dispatchNow 本地命令不經網路, 直接在 Update 內執行
func dispatchNow(d Dispatcher, cmd cmd_model.Command) outcomeMsg {
	out, err := d.HandleCommand(context.Background(), cmd)
	return outcomeMsg{cmdType: cmd.Type(), out: out, err: err}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
