package service

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// productRow CSV 欄位: id,name,price,category,subcategory,variant
// 價格保持字串, 與表單走相同驗證
type productRow struct {
	ID          string `csv:"id"`
	Name        string `csv:"name"`
	Price       string `csv:"price"`
	Category    string `csv:"category"`
	Subcategory string `csv:"subcategory"`
	Variant     string `csv:"variant"`
}

func (r *productRow) form() ProductForm {
	return ProductForm{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Variant:     r.Variant,
	}
}

type ImportRowResult struct {
	Line    int
	Name    string
	Message string
	Err     error
}

type ImportReport struct {
	Rows []ImportRowResult
}

func (r ImportReport) Succeeded() int {
	n := 0
	for _, row := range r.Rows {
		if row.Err == nil {
			n++
		}
	}
	return n
}

func (r ImportReport) Failed() int {
	return len(r.Rows) - r.Succeeded()
}

func parseProductRows(src io.Reader) ([]*productRow, error) {
	var rows []*productRow
	if err := gocsv.Unmarshal(src, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// importRows 逐行儲存, 單行失敗不中斷
func importRows(ctx context.Context, api ProductAPI, rows []*productRow) ImportReport {
	report := ImportReport{Rows: make([]ImportRowResult, 0, len(rows))}
	for i, row := range rows {
		// 第一行是 header
		res := ImportRowResult{Line: i + 2, Name: row.Name}
		req, err := row.form().Request()
		if err != nil {
			res.Err = err
			report.Rows = append(report.Rows, res)
			continue
		}
		resp, err := api.SaveProduct(ctx, req)
		res.Message = resp.Message
		res.Err = err
		report.Rows = append(report.Rows, res)
	}
	return report
}
