package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/app"
	"github.com/erazemk/zaloga/internal/persist"
	"github.com/erazemk/zaloga/internal/vault"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: zaloga <init|inspect>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: zaloga <init|inspect>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	vaultPath := fs.String("vault", "zaloga.vault", "path to the vault file")
	passphrase := fs.String("passphrase", "", "vault passphrase")
	fs.Parse(args)

	if *passphrase == "" {
		fmt.Fprintln(os.Stderr, "Error: -passphrase is required")
		os.Exit(1)
	}
	if _, err := os.Stat(*vaultPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: vault file %s already exists\n", *vaultPath)
		os.Exit(1)
	}

	v, err := vault.Open(*vaultPath, *passphrase)
	if err != nil {
		log.Fatalf("Failed to open vault: %v", err)
	}
	defer v.Close()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer logger.Sync()

	gw := persist.NewGateway(v, logger)
	if err := gw.Save(context.Background(), persist.Empty()); err != nil {
		os.Remove(*vaultPath)
		log.Fatalf("Failed to seed vault: %v", err)
	}

	fmt.Printf("Vault created: %s\n", *vaultPath)
	fmt.Println("Empty snapshot written.")
	fmt.Println()
	fmt.Println("Keep the passphrase safe: data cannot be recovered without it.")
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	vaultPath := fs.String("vault", "zaloga.vault", "path to the vault file")
	passphrase := fs.String("passphrase", "", "vault passphrase")
	fs.Parse(args)

	if *passphrase == "" {
		fmt.Fprintln(os.Stderr, "Error: -passphrase is required")
		os.Exit(1)
	}
	if _, err := os.Stat(*vaultPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: vault file %s does not exist\n", *vaultPath)
		os.Exit(1)
	}

	v, err := vault.Open(*vaultPath, *passphrase)
	if err != nil {
		log.Fatalf("Failed to open vault: %v", err)
	}
	defer v.Close()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer logger.Sync()

	a, err := app.New(context.Background(), v, logger)
	if err != nil {
		log.Fatalf("Failed to load data layer: %v", err)
	}
	defer a.Flush()

	sum := a.Summarize()
	fmt.Printf("Users:      %d\n", sum.Users)
	fmt.Printf("Categories: %d\n", sum.Categories)
	fmt.Printf("Products:   %d\n", sum.Products)
	fmt.Printf("Low stock:  %d\n", sum.LowStock)

	if low := a.LowStockProducts(); len(low) > 0 {
		fmt.Println()
		fmt.Println("Low-stock products:")
		for _, p := range low {
			fmt.Printf("  %s (%d < %d)\n", p.Title, p.Quantity, p.LowStockThreshold)
		}
	}

	if orphans := a.OrphanedProducts(); len(orphans) > 0 {
		fmt.Println()
		fmt.Println("Products referencing deleted categories:")
		for _, p := range orphans {
			fmt.Printf("  %s (category %s)\n", p.Title, p.CategoryID)
		}
	}
}
