package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
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
	runCmd := flag.String("run", "", "run headless: products|history|pay")
	items := flag.String("items", "", "items for pay, id:qty,id:qty")
	customer := flag.String("customer", "", "customer name for pay")
	flag.Parse()

	cf := config.GetConfig()
	if *runCmd == "" {
		cf = cf.ForTUI("pos.log")
	}

	ctx := context.Background()
	app, err := appcontext.NewApplicationContext(ctx, cf, "pos")
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
	app.WarmStart(ctx)

	var opts []handler.DispatcherOption
	opts = append(opts, handler.WithLogger(app.Logger))
	if app.CommandRepo != nil {
		opts = append(opts, handler.WithCommandCache(app.CommandRepo, cmd_model.CheckoutCommandName))
	}
	dispatcher := handler.NewPOSHandler(app.POSService, opts...)

	if *runCmd != "" {
		if err := runHeadless(ctx, app, dispatcher, *runCmd, *items, *customer); err != nil {
			fmt.Println("error:", err)
			return 1
		}
		return 0
	}

	p := tea.NewProgram(tui.NewPOSModel(dispatcher, app.POSService.View, openBrowser))
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		return 1
	}
	return 0
}

func runHeadless(ctx context.Context, app *appcontext.ApplicationContext, d *handler.HandlerDispatcher, run, items, customer string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*app.Cf.RequestTimeout)
	defer cancel()

	switch run {
	case "products":
		out, err := d.HandleCommand(ctx, cmd_model.NewLoadCatalogCommand())
		if err := outcomeErr(out, err); err != nil {
			return err
		}
		for _, p := range app.CatalogService.Products() {
			fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, util.FormatPrice(p.Price), p.Category, p.Subcategory, p.Variant)
		}
	case "history":
		out, err := d.HandleCommand(ctx, cmd_model.NewLoadHistoryCommand())
		if err := outcomeErr(out, err); err != nil {
			return err
		}
		for _, o := range app.HistoryService.Orders() {
			fmt.Printf("#%d\t%s\t%s\t%s\n", o.ID, o.CreatedAt, o.CustomerName, util.FormatCurrency(o.TotalAmount))
		}
	case "pay":
		out, err := d.HandleCommand(ctx, cmd_model.NewLoadCatalogCommand())
		if err := outcomeErr(out, err); err != nil {
			return err
		}
		lines, err := parseItems(items)
		if err != nil {
			return err
		}
		for _, l := range lines {
			for i := 0; i < l[1]; i++ {
				if out, _ := d.HandleCommand(ctx, cmd_model.NewAddLineCommand(int64(l[0]))); out.Kind == handler.OutcomeIgnored {
					return fmt.Errorf("product %d not found", l[0])
				}
			}
		}
		out, err = d.HandleCommand(ctx, cmd_model.NewSetCustomerNameCommand(customer))
		if err := outcomeErr(out, err); err != nil {
			return err
		}
		out, err = d.HandleCommand(ctx, cmd_model.NewCheckoutCommand())
		if err := outcomeErr(out, err); err != nil {
			return err
		}
		fmt.Println("Invoice:", out.InvoiceURL)
	default:
		return fmt.Errorf("unknown -run %q", run)
	}
	return nil
}

func outcomeErr(out handler.Outcome, err error) error {
	if err != nil {
		return err
	}
	if out.Err != nil && (out.Kind == handler.OutcomeNotice || out.Kind == handler.OutcomeInlineError) {
		return fmt.Errorf("%s: %w", out.Message, out.Err)
	}
	return nil
}

// parseItems "1:2,3:1" -> [[1 2] [3 1]]
func parseItems(s string) ([][2]int, error) {
	var out [][2]int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, qtyStr, found := strings.Cut(part, ":")
		if !found {
			qtyStr = "1"
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid item %q", part)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in %q", part)
		}
		out = append(out, [2]int{id, qty})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no items, use -items id:qty")
	}
	return out, nil
}

// openBrowser 以系統預設程式開啟發票
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
