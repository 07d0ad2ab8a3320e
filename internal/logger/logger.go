package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Module string
	Level  string
	Pretty bool
	// 為空時輸出到 stderr, TUI 模式需指定檔案避免干擾畫面
	File string
}

// New 建立 zerolog logger, 回傳的 closer 用來關閉 log 檔案
func New(opts Options) (*zerolog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closer = f
	}
	l := NewWithWriter(w, opts)
	return l, closer, nil
}

func NewWithWriter(w io.Writer, opts Options) *zerolog.Logger {
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: opts.File != ""}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if opts.Module != "" {
		ctx = ctx.Str("module", opts.Module)
	}
	l := ctx.Logger()
	return &l
}

// Nop 測試與未設定 logger 時使用
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
