package service

import (
	"context"
	"strings"
	"testing"

	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/RoyceAzure/lab/pos/internal/stubserver"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AdminServiceTestSuite struct {
	suite.Suite
	store *stubserver.Store
	admin *AdminService
}

func (suite *AdminServiceTestSuite) SetupTest() {
	client, store, _ := newStubAPI(suite.T(), testProducts())
	suite.store = store
	suite.admin = NewAdminService(NewCatalogService(client, nil, nil), client, nil)
	require.NoError(suite.T(), suite.admin.LoadProducts(context.Background()))
}

func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}

func (suite *AdminServiceTestSuite) fill(name, price string) {
	require.NoError(suite.T(), suite.admin.SetField(cmd_model.FieldName, name))
	require.NoError(suite.T(), suite.admin.SetField(cmd_model.FieldPrice, price))
}

func (suite *AdminServiceTestSuite) TestCreateProduct() {
	suite.fill("Sinh tố", "45000")
	msg, err := suite.admin.Submit(context.Background())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Đã thêm sản phẩm mới!", msg)

	v := suite.admin.View()
	assert.Len(suite.T(), v.Products, 5)
	assert.Equal(suite.T(), FormModeCreate, v.Form.Mode)
	assert.Empty(suite.T(), v.Form.Form.Name)
}

func (suite *AdminServiceTestSuite) TestEditAndSave() {
	require.NoError(suite.T(), suite.admin.Edit(3))
	v := suite.admin.View()
	assert.Equal(suite.T(), FormModeEdit, v.Form.Mode)
	assert.Equal(suite.T(), editTitle, v.Form.Title)
	assert.Equal(suite.T(), editSubmitLabel, v.Form.SubmitLabel)
	assert.True(suite.T(), v.Form.ShowCancel)
	assert.Equal(suite.T(), "3", v.Form.Form.ID)
	assert.Equal(suite.T(), "Tea", v.Form.Form.Name)
	assert.Equal(suite.T(), "15000", v.Form.Form.Price)
	assert.Equal(suite.T(), "Hot", v.Form.Form.Subcategory)

	require.NoError(suite.T(), suite.admin.SetField(cmd_model.FieldPrice, "18000"))
	msg, err := suite.admin.Submit(context.Background())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Đã cập nhật sản phẩm!", msg)

	v = suite.admin.View()
	assert.Equal(suite.T(), FormModeCreate, v.Form.Mode)
	assert.False(suite.T(), v.Form.ShowCancel)
	assert.True(suite.T(), v.Products[2].Price.Equal(decimal.NewFromInt(18000)))
}

func (suite *AdminServiceTestSuite) TestEditUnknownIsNoop() {
	suite.fill("Draft", "1")
	assert.ErrorIs(suite.T(), suite.admin.Edit(99), ErrProductNotFound)
	v := suite.admin.View()
	assert.Equal(suite.T(), FormModeCreate, v.Form.Mode)
	assert.Equal(suite.T(), "Draft", v.Form.Form.Name)
}

func (suite *AdminServiceTestSuite) TestCancelResets() {
	require.NoError(suite.T(), suite.admin.Edit(1))
	suite.admin.Cancel()
	v := suite.admin.View()
	assert.Equal(suite.T(), FormModeCreate, v.Form.Mode)
	assert.Equal(suite.T(), createTitle, v.Form.Title)
	assert.Equal(suite.T(), createSubmitLabel, v.Form.SubmitLabel)
	assert.Equal(suite.T(), ProductForm{}, v.Form.Form)
}

func (suite *AdminServiceTestSuite) TestValidationKeepsValues() {
	suite.fill("", "10")
	_, err := suite.admin.Submit(context.Background())
	assert.ErrorIs(suite.T(), err, ErrNameRequired)

	suite.fill("Cake", "abc")
	_, err = suite.admin.Submit(context.Background())
	assert.ErrorIs(suite.T(), err, ErrInvalidPrice)
	assert.Equal(suite.T(), "abc", suite.admin.View().Form.Form.Price)
	assert.Len(suite.T(), suite.store.Products(), 4)
}

func (suite *AdminServiceTestSuite) TestRejectionKeepsForm() {
	require.NoError(suite.T(), suite.admin.Edit(2))
	// 讓 server 找不到這個 id
	require.NoError(suite.T(), suite.admin.SetField(cmd_model.FieldName, "Coffee XL"))
	suite.admin.form.form.ID = "404"

	_, err := suite.admin.Submit(context.Background())
	_, ok := api.IsRejection(err)
	assert.True(suite.T(), ok)
	v := suite.admin.View()
	assert.Equal(suite.T(), FormModeEdit, v.Form.Mode)
	assert.Equal(suite.T(), "Coffee XL", v.Form.Form.Name)
}

func (suite *AdminServiceTestSuite) TestImportCSV() {
	csv := strings.Join([]string{
		"id,name,price,category,subcategory,variant",
		",Sinh tố,45000,Drinks,Cold,",
		",,1000,,,",
		"1,Coffee,21000,Drinks,Hot,",
		",Juice,abc,Drinks,Cold,",
		"777,Ghost,1,,,",
	}, "\n")

	report, err := suite.admin.Import(context.Background(), strings.NewReader(csv))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), report.Rows, 5)
	assert.Equal(suite.T(), 2, report.Succeeded())
	assert.Equal(suite.T(), 3, report.Failed())
	assert.ErrorIs(suite.T(), report.Rows[1].Err, ErrNameRequired)
	assert.Equal(suite.T(), 3, report.Rows[1].Line)
	assert.ErrorIs(suite.T(), report.Rows[3].Err, ErrInvalidPrice)
	_, ok := api.IsRejection(report.Rows[4].Err)
	assert.True(suite.T(), ok)

	v := suite.admin.View()
	assert.Len(suite.T(), v.Products, 5)
	assert.True(suite.T(), v.Products[0].Price.Equal(decimal.NewFromInt(21000)))
}

func TestProductFormRequest(t *testing.T) {
	req, err := ProductForm{Name: " Bạc xỉu ", Price: "35000"}.Request()
	require.NoError(t, err)
	assert.Nil(t, req.ID)
	assert.Equal(t, "Bạc xỉu", req.Name)

	req, err = ProductForm{ID: "5", Name: "Bạc xỉu", Price: "35000.50"}.Request()
	require.NoError(t, err)
	require.NotNil(t, req.ID)
	assert.Equal(t, int64(5), *req.ID)
	assert.Equal(t, "35000.5", req.Price.String())

	_, err = ProductForm{ID: "x", Name: "a", Price: "1"}.Request()
	assert.ErrorIs(t, err, ErrInvalidProductID)
}

func TestSetUnknownField(t *testing.T) {
	c := NewProductFormController()
	assert.ErrorIs(t, c.SetField("sku", "1"), ErrUnknownField)
}
