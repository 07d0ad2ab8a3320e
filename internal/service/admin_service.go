package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/rs/zerolog"
)

type AdminView struct {
	Products []model.Product
	Form     FormView
}

// AdminService 商品管理頁面的狀態擁有者
type AdminService struct {
	catalog *CatalogService
	api     ProductAPI
	logger  *zerolog.Logger

	mu   sync.Mutex
	form *ProductFormController
}

func NewAdminService(catalog *CatalogService, api ProductAPI, logger *zerolog.Logger) *AdminService {
	if catalog == nil || !util.HasImplementation(api) {
		panic("admin service requires catalog service and product api")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AdminService{
		catalog: catalog,
		api:     api,
		logger:  logger,
		form:    NewProductFormController(),
	}
}

func (s *AdminService) LoadProducts(ctx context.Context) error {
	_, err := s.catalog.Load(ctx)
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	return nil
}

// Edit id 不在快取中時不做任何事
func (s *AdminService) Edit(productID int64) error {
	p, ok := s.catalog.Lookup(productID)
	if !ok {
		return fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Edit(p)
	return nil
}

func (s *AdminService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Reset()
}

func (s *AdminService) SetField(field cmd_model.FormField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.SetField(field, value)
}

// Submit 成功時清空表單回到新增模式並重新載入目錄, 失敗時保留輸入
func (s *AdminService) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	form := s.form.Form()
	s.mu.Unlock()

	req, err := form.Request()
	if err != nil {
		return "", err
	}
	resp, err := s.api.SaveProduct(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Str("name", req.Name).Msg("save product failed")
		return "", err
	}

	s.mu.Lock()
	s.form.Reset()
	s.mu.Unlock()

	s.logger.Info().Str("name", req.Name).Bool("update", req.ID != nil).Msg("product saved")
	if err := s.LoadProducts(ctx); err != nil {
		return resp.Message, err
	}
	return resp.Message, nil
}

// Import 從 CSV 批次新增或更新商品, 全部處理完後重新載入一次目錄
func (s *AdminService) Import(ctx context.Context, src io.Reader) (ImportReport, error) {
	rows, err := parseProductRows(src)
	if err != nil {
		return ImportReport{}, err
	}
	report := importRows(ctx, s.api, rows)
	s.logger.Info().
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Msg("product import finished")

	if report.Succeeded() > 0 {
		if err := s.LoadProducts(ctx); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *AdminService) View() AdminView {
	products := s.catalog.Products()
	s.mu.Lock()
	defer s.mu.Unlock()
	return AdminView{Products: products, Form: s.form.View()}
}
