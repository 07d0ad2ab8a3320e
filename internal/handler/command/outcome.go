package handler

import "github.com/RoyceAzure/lab/pos/internal/domain/grid"

type OutcomeKind string

const (
	// 重新繪製畫面
	OutcomeRender OutcomeKind = "render"
	// 需要使用者確認的提示
	OutcomeNotice      OutcomeKind = "notice"
	OutcomeInlineError OutcomeKind = "inline_error"
	OutcomeVariantPick OutcomeKind = "variant_prompt"
	OutcomeOpenInvoice OutcomeKind = "open_invoice"
	OutcomeIgnored     OutcomeKind = "ignored"
)

// Outcome 命令處理結果, 由畫面決定如何呈現
// Err 為造成 Notice/InlineError 的原因
type Outcome struct {
	Kind       OutcomeKind
	Message    string
	Options    []grid.VariantOption
	InvoiceURL string
	Err        error
}

func render() Outcome {
	return Outcome{Kind: OutcomeRender}
}

func notice(message string, err error) Outcome {
	return Outcome{Kind: OutcomeNotice, Message: message, Err: err}
}

func ignored(err error) Outcome {
	return Outcome{Kind: OutcomeIgnored, Err: err}
}
