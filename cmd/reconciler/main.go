package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"o365-reconciler/internal/config"
	"o365-reconciler/internal/gateway"
	"o365-reconciler/internal/logger"
	"o365-reconciler/internal/usecase"
)

func main() {
	// Define command-line flags
	billingFile := flag.String("billing", "", "Path to the billing line-item CSV snapshot (required)")
	subscriptionsFile := flag.String("subscriptions", "", "Path to the distributor subscription JSON snapshot (required)")
	problemsFile := flag.String("problems", "", "Path to the problem-client CSV snapshot (optional)")
	withTrace := flag.Bool("trace", false, "Include engine trace records in the output")
	flag.Parse()

	if *billingFile == "" || *subscriptionsFile == "" {
		fmt.Println("Error: flags -billing and -subscriptions are required.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer zlog.Sync()

	// --- Dependency Injection (Wiring the application) ---
	// Gateways are wired manually; the usecase only sees the interfaces.
	billingFeed := gateway.NewCSVBillingFeed(*billingFile, *problemsFile, zlog)
	subscriptionFeed := gateway.NewJSONSubscriptionFeed(*subscriptionsFile, zlog)
	mappingStore := gateway.NewJSONMappingStore(cfg.Stores.MappingPath, zlog)
	exceptionStore := gateway.NewJSONExceptionStore(cfg.Stores.ExceptionPath, zlog)

	reconciliationUseCase := usecase.NewReconciliationUseCase(
		billingFeed, subscriptionFeed, mappingStore, exceptionStore, zlog)

	var sink *usecase.TraceCollector
	if *withTrace {
		sink = usecase.NewTraceCollector()
	}

	// --- Execute the Usecase ---
	var trace usecase.TraceSink
	if sink != nil {
		trace = sink
	}
	report, err := reconciliationUseCase.GenerateReport(context.Background(), trace)
	if err != nil {
		zlog.Fatalf("Report generation failed: %v", err)
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		zlog.Fatalf("Failed to generate JSON report: %v", err)
	}
	fmt.Println(string(output))

	if sink != nil {
		for _, record := range sink.Records() {
			zlog.Debugw("trace", "event", record.Event, "fields", record.Fields)
		}
	}
}
