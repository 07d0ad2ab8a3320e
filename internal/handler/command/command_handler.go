package handler

import (
	"context"
	"errors"
	"fmt"

	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	"github.com/rs/zerolog"
)

type HandlerError error

var (
	ErrHandlerNotFound   HandlerError = errors.New("handler not found")
	ErrDuplicateCommand  HandlerError = errors.New("command already processed")
	ErrUnexpectedCommand HandlerError = errors.New("unexpected command type")
)

type HandlerFunc func(ctx context.Context, cmd cmd_model.Command) (Outcome, error)

func (f HandlerFunc) HandleCommand(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	return f(ctx, cmd)
}

type Handler interface {
	HandleCommand(ctx context.Context, cmd cmd_model.Command) (Outcome, error)
}

// CommandDeduper 記錄處理過的命令, 由 redis 實作
type CommandDeduper interface {
	MarkProcessed(ctx context.Context, cmdType, cmdID string) (bool, error)
}

type HandlerDispatcher struct {
	handlers     map[cmd_model.CommandType]Handler
	commandCache CommandDeduper
	// 只有這些類型需要去重
	dedupe map[cmd_model.CommandType]struct{}
	logger *zerolog.Logger
}

type DispatcherOption func(*HandlerDispatcher)

// WithCommandCache commandCache 為 nil 時不去重
func WithCommandCache(cache CommandDeduper, types ...cmd_model.CommandType) DispatcherOption {
	return func(d *HandlerDispatcher) {
		if cache == nil {
			return
		}
		d.commandCache = cache
		for _, t := range types {
			d.dedupe[t] = struct{}{}
		}
	}
}

func WithLogger(l *zerolog.Logger) DispatcherOption {
	return func(d *HandlerDispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func NewHandlerDispatcher(handlers map[cmd_model.CommandType]Handler, opts ...DispatcherOption) *HandlerDispatcher {
	nop := zerolog.Nop()
	d := &HandlerDispatcher{
		handlers: handlers,
		dedupe:   map[cmd_model.CommandType]struct{}{},
		logger:   &nop,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *HandlerDispatcher) HandleCommand(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	handler, ok := d.handlers[cmd.Type()]
	if !ok {
		return Outcome{}, fmt.Errorf("%s: %w", cmd.Type(), ErrHandlerNotFound)
	}

	// 檢查命令是否已經處理過
	if _, need := d.dedupe[cmd.Type()]; need && d.commandCache != nil {
		first, err := d.commandCache.MarkProcessed(ctx, string(cmd.Type()), cmd.GetID())
		if err != nil {
			return Outcome{}, err
		}
		if !first {
			d.logger.Warn().Str("type", string(cmd.Type())).Str("id", cmd.GetID()).Msg("duplicate command")
			return ignored(ErrDuplicateCommand), ErrDuplicateCommand
		}
	}

	out, err := handler.HandleCommand(ctx, cmd)
	d.logger.Debug().
		Str("type", string(cmd.Type())).
		Str("id", cmd.GetID()).
		Str("outcome", string(out.Kind)).
		AnErr("cause", out.Err).
		Msg("command handled")
	return out, err
}

func unexpected(cmd cmd_model.Command) (Outcome, error) {
	return Outcome{}, fmt.Errorf("%s (%T): %w", cmd.Type(), cmd, ErrUnexpectedCommand)
}
