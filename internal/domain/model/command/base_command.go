package model

import "github.com/RoyceAzure/lab/pos/internal/pkg/util"

type BaseCommand struct {
	commandID string
}

func NewBaseCommand() BaseCommand {
	return BaseCommand{commandID: util.NewRequestID()}
}

func (c *BaseCommand) GetID() string {
	return c.commandID
}

type CommandType string

type Command interface {
	Type() CommandType
	GetID() string
}
