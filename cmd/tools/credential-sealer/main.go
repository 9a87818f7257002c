// cmd/tools/credential-sealer/main.go

// credential-sealer manages provider API keys from the command line.
// Keys are sealed with the configured master key before they touch the
// database; the console itself never sees a plaintext credential at rest.
//
//	credential-sealer seal -provider openai -key sk-...     store a sealed key
//	credential-sealer seal -provider openai -key sk-... -print
//	                                                        print instead of store
//	credential-sealer verify -provider openai               check the stored key decrypts
//	credential-sealer select -provider openai               make a provider active
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"contest-console/internal/common/config"
	"contest-console/internal/common/database"
	"contest-console/internal/credentials"
	"contest-console/internal/repository"
)

func main() {
	sealCmd := flag.NewFlagSet("seal", flag.ExitOnError)
	sealProvider := sealCmd.String("provider", "", "Provider code (openai, anthropic, gemini, huggingface)")
	sealKey := sealCmd.String("key", "", "Plaintext API key to seal")
	sealPrint := sealCmd.Bool("print", false, "Print the sealed value instead of storing it")

	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	verifyProvider := verifyCmd.String("provider", "", "Provider code to verify")

	selectCmd := flag.NewFlagSet("select", flag.ExitOnError)
	selectProvider := selectCmd.String("provider", "", "Provider code to activate")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: could not load configuration: %v\n", err)
		os.Exit(1)
	}
	key := credentials.DeriveKey(cfg.Credentials.MasterKey)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "seal":
		sealCmd.Parse(os.Args[2:])
		if *sealProvider == "" || *sealKey == "" {
			fmt.Println("Error: provider and key are required for seal.")
			sealCmd.Usage()
			os.Exit(1)
		}
		sealed, err := credentials.Encrypt(key, *sealKey)
		if err != nil {
			fmt.Printf("Error: seal failed: %v\n", err)
			os.Exit(1)
		}
		if *sealPrint {
			fmt.Println(sealed)
			return
		}
		db := mustConnect(cfg)
		defer db.Close()
		if err := storeCredential(ctx, db, *sealProvider, sealed); err != nil {
			fmt.Printf("Error: store failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sealed credential stored for %s.\n", *sealProvider)

	case "verify":
		verifyCmd.Parse(os.Args[2:])
		if *verifyProvider == "" {
			fmt.Println("Error: provider is required for verify.")
			os.Exit(1)
		}
		db := mustConnect(cfg)
		defer db.Close()
		provider, err := repository.NewPostgresProviderRepository(db.DB).FindByCode(ctx, *verifyProvider)
		if err != nil {
			fmt.Printf("Error: provider lookup failed: %v\n", err)
			os.Exit(1)
		}
		if provider.EncryptedCredential == "" {
			fmt.Printf("No credential stored for %s.\n", *verifyProvider)
			os.Exit(1)
		}
		plain, err := credentials.Decrypt(key, provider.EncryptedCredential)
		if err != nil {
			fmt.Printf("Stored credential for %s does NOT decrypt with the current master key: %v\n", *verifyProvider, err)
			os.Exit(1)
		}
		fmt.Printf("Credential for %s decrypts OK (%d characters).\n", *verifyProvider, len(plain))

	case "select":
		selectCmd.Parse(os.Args[2:])
		if *selectProvider == "" {
			fmt.Println("Error: provider is required for select.")
			os.Exit(1)
		}
		db := mustConnect(cfg)
		defer db.Close()
		if err := repository.NewPostgresProviderRepository(db.DB).Select(ctx, *selectProvider); err != nil {
			fmt.Printf("Error: select failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Provider %s is now active.\n", *selectProvider)

	default:
		help()
		os.Exit(1)
	}
}

func mustConnect(cfg *config.Config) *database.PostgresClient {
	db, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error: database connection failed: %v\n", err)
		os.Exit(1)
	}
	return db
}

func storeCredential(ctx context.Context, db *database.PostgresClient, providerCode, sealed string) error {
	res, err := db.DB.ExecContext(ctx,
		`UPDATE ai_providers SET encrypted_credential = $2, updated_at = NOW() WHERE code = $1`,
		providerCode, sealed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no provider row with code %q", providerCode)
	}
	return nil
}

func help() {
	fmt.Println("Usage: credential-sealer <seal|verify|select> [flags]")
	fmt.Println("  seal    -provider <code> -key <plaintext> [-print]")
	fmt.Println("  verify  -provider <code>")
	fmt.Println("  select  -provider <code>")
}
