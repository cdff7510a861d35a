package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/storelane/inventory/internal/adapter/storage"
	"github.com/storelane/inventory/internal/core/domain"
	"github.com/storelane/inventory/internal/core/service"
)

const (
	mysqlDSN      = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	productID     = "stress-test-product"
	initialStock  = 20
	totalRequests = 50
)

// Stress-tests the reservation gate: N concurrent single-unit reservations
// against K units of stock must yield exactly K successes and N-K
// insufficient-stock failures, with no oversell.
func main() {
	ctx := context.Background()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	ledger := storage.NewMySQLLedger(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Clear previous test data
	db.ExecContext(ctx, `DELETE FROM adjustment_events WHERE product_id = ?`, productID)
	db.ExecContext(ctx, `DELETE FROM stock_items WHERE product_id = ?`, productID)

	if err := ledger.Provision(ctx, productID, domain.DefaultLowStockThreshold); err != nil {
		log.Fatalf("failed to provision: %v", err)
	}

	logger := zerolog.Nop()
	alertSvc := service.NewAlertService(storage.NewMemoryStatusStore(), logger, 100)
	defer alertSvc.Close()
	adjustSvc := service.NewAdjustmentService(ledger, alertSvc, logger, 5, 500*time.Millisecond)
	reserveSvc := service.NewReservationService(adjustSvc, ledger, logger)

	// Drain the alert queue in background
	go func() {
		for range alertSvc.Events() {
		}
	}()

	if _, err := adjustSvc.Adjust(ctx, productID, initialStock, domain.KindSet, "stress load", "stress"); err != nil {
		log.Fatalf("failed to load stock: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var errorCount atomic.Int32

	// Spawn concurrent reservations
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := reserveSvc.Reserve(ctx, productID, 1)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				errorCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	soldOut := soldOutCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:      %d\n", initialStock)
	fmt.Printf("Total Requests:     %d\n", totalRequests)
	fmt.Printf("Reserved:           %d\n", success)
	fmt.Printf("Insufficient Stock: %d\n", soldOut)
	fmt.Printf("Errors:             %d\n", errorCount.Load())
	fmt.Printf("Duration:           %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(initialStock) && soldOut == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: exactly %d reservations succeeded, %d rejected\n", success, soldOut)
	} else {
		fmt.Printf("FAIL: expected %d success/%d rejected, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, soldOut)
	}

	// Verify final ledger state
	item, err := ledger.Get(ctx, productID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", item.Quantity)

	if item.Quantity == 0 {
		fmt.Println("PASS: stock depleted to 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", item.Quantity)
	}
}
