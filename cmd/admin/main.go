package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/appcontext"
	"github.com/RoyceAzure/lab/pos/internal/config"
	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	handler "github.com/RoyceAzure/lab/pos/internal/handler/command"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/RoyceAzure/lab/pos/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	os.Exit(run())
}

// run 回傳 exit code, defer 的 Shutdown 在結束前一定會執行
func run() int {
	importFile := flag.String("import", "", "import products from a CSV file (id,name,price,category,subcategory,variant) and exit")
	list := flag.Bool("list", false, "print the product list and exit")
	flag.Parse()

	cf := config.GetConfig()
	headless := *importFile != "" || *list
	if !headless {
		cf = cf.ForTUI("admin.log")
	}

	ctx := context.Background()
	app, err := appcontext.NewApplicationContext(ctx, cf, "admin")
	if err != nil {
		log.Printf("init error: %v", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	dispatcher := handler.NewAdminHandler(app.AdminService, handler.WithLogger(app.Logger))

	switch {
	case *importFile != "":
		err = runImport(ctx, dispatcher, *importFile)
	case *list:
		err = runList(ctx, app, dispatcher)
	default:
		p := tea.NewProgram(tui.NewAdminModel(dispatcher, app.AdminService.View))
		_, err = p.Run()
	}
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}
	return 0
}

func runImport(ctx context.Context, d *handler.HandlerDispatcher, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := d.HandleCommand(ctx, cmd_model.NewImportProductsCommand(f))
	if err != nil {
		return err
	}
	fmt.Println(out.Message)
	return nil
}

func runList(ctx context.Context, app *appcontext.ApplicationContext, d *handler.HandlerDispatcher) error {
	ctx, cancel := context.WithTimeout(ctx, 2*app.Cf.RequestTimeout)
	defer cancel()
	out, err := d.HandleCommand(ctx, cmd_model.NewLoadProductsCommand())
	if err != nil {
		return err
	}
	if out.Err != nil {
		return fmt.Errorf("%s: %w", out.Message, out.Err)
	}
	for _, p := range app.AdminService.View().Products {
		fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, util.FormatCurrency(p.Price), p.Category, p.Subcategory, p.Variant)
	}
	return nil
}
