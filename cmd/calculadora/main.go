// Command calculadora runs the quick profitability calculator from the
// command line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"rentabilidad/internal/stats"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calculadora", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var in stats.QuickInput
	fs.StringVar(&in.ProductName, "producto", "", "product name")
	fs.StringVar(&in.PurchasePrice, "compra", "", "unit purchase price, e.g. 12.50")
	fs.StringVar(&in.SellingPrice, "venta", "", "unit selling price")
	fs.StringVar(&in.Quantity, "cantidad", "", "units sold")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := stats.QuickCalculate(in)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if res == nil {
		fmt.Fprintln(stderr, "all of -producto, -compra, -venta and -cantidad are required")
		fs.Usage()
		return 2
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stdout, "Producto:         %s\n", res.ProductName)
	fmt.Fprintf(stdout, "Cantidad:         %d\n", res.Quantity)
	fmt.Fprintf(stdout, "Ingresos totales: %s\n", res.TotalRevenue)
	fmt.Fprintf(stdout, "Costo total:      %s\n", res.TotalCost)
	fmt.Fprintf(stdout, "Ganancia:         %s\n", res.Profit)
	fmt.Fprintf(stdout, "Margen:           %.2f%%\n", res.ProfitMargin)
	fmt.Fprintf(stdout, "ROI:              %.2f%%\n", res.ROI)
	return 0
}
