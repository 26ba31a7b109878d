// reconcile reproduce el ledger de todos los productos (o de uno) y compara el resultado con
// stock_quantity y reserved_stock guardados. No corrige nada: solo reporta.
//
// Uso: go run ./cmd/reconcile [product_id]
// Sale con código 2 si encuentra algún producto inconsistente.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cctv-stock-api/pkg/config"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver != "postgres" {
		fmt.Fprintln(os.Stderr, "reconcile requiere DB_DRIVER=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "reconcile"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	uc := inventory.NewReconcileUseCase(
		postgres.NewTxRunner(pool, cfg.Ledger.MaxRetries, log),
		postgres.NewProductRepository(pool),
		log,
		cfg.Ledger.OpTimeout,
	)

	var results []dto.ReconciliationResultDTO
	if len(os.Args) > 1 {
		r, err := uc.ReconcileProduct(ctx, os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conciliar %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		results = append(results, *r)
	} else {
		results, err = uc.ReconcileAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conciliar: %v\n", err)
			os.Exit(1)
		}
	}

	inconsistent := make([]dto.ReconciliationResultDTO, 0)
	for _, r := range results {
		if !r.Consistent() {
			inconsistent = append(inconsistent, r)
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(inconsistent); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir resultado: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d productos revisados, %d inconsistentes\n", len(results), len(inconsistent))
	if len(inconsistent) > 0 {
		os.Exit(2)
	}
}
