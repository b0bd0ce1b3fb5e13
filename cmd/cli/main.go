package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "erpledger-cli",
		Short: "ERP ledger CLI tool",
		Long:  `A command line interface for the ERP ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(transactionCmd())
	rootCmd.AddCommand(periodCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Chart of accounts operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <code>",
		Short: "Get an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0])
		},
	})

	balance := &cobra.Command{
		Use:   "balance <code>",
		Short: "Get an account balance as of a date",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			asOf, _ := cmd.Flags().GetString("as-of")
			get("/api/v1/accounts/" + args[0] + "/balance?as_of=" + asOf)
		},
	}
	balance.Flags().String("as-of", time.Now().UTC().Format("2006-01-02"), "Balance date (YYYY-MM-DD)")
	cmd.AddCommand(balance)

	return cmd
}

func transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/transactions/" + args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "post <id>",
		Short: "Post a transaction to the ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/transactions/"+args[0]+"/post", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unpost <id>",
		Short: "Revert a posted transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/transactions/"+args[0]+"/unpost", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "audit <number>",
		Short: "Show the audit trail for a posted transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/journal/audit/" + args[0])
		},
	})

	return cmd
}

func periodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Fiscal period operations",
	}

	actor := func(c *cobra.Command) string {
		v, _ := c.Flags().GetString("actor")
		return v
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List fiscal periods by status",
		Run: func(cmd *cobra.Command, args []string) {
			status, _ := cmd.Flags().GetString("status")
			get("/api/v1/periods?status=" + status)
		},
	}
	list.Flags().String("status", "open", "Period status filter (open or closed)")
	cmd.AddCommand(list)

	open := &cobra.Command{
		Use:   "open <code>",
		Short: "Open a fiscal period",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/periods/"+args[0]+"/open", map[string]string{"actor": actor(cmd)})
		},
	}
	open.Flags().String("actor", "", "Actor recorded in the audit trail")
	cmd.AddCommand(open)

	closeCmd := &cobra.Command{
		Use:   "close <code>",
		Short: "Close a fiscal period",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/periods/"+args[0]+"/close", map[string]string{"actor": actor(cmd)})
		},
	}
	closeCmd.Flags().String("actor", "", "Actor recorded in the audit trail")
	cmd.AddCommand(closeCmd)

	check := &cobra.Command{
		Use:   "check",
		Short: "Check whether a date falls in an open period",
		Run: func(cmd *cobra.Command, args []string) {
			date, _ := cmd.Flags().GetString("date")
			get("/api/v1/periods/check?date=" + date)
		},
	}
	check.Flags().String("date", time.Now().UTC().Format("2006-01-02"), "Date to check (YYYY-MM-DD)")
	cmd.AddCommand(check)

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reporting operations",
	}

	trialBalance := &cobra.Command{
		Use:   "trial-balance",
		Short: "Generate the trial balance",
		Run: func(cmd *cobra.Command, args []string) {
			asOf, _ := cmd.Flags().GetString("as-of")
			get("/api/v1/reports/trial-balance?as_of=" + asOf)
		},
	}
	trialBalance.Flags().String("as-of", time.Now().UTC().Format("2006-01-02"), "Report date (YYYY-MM-DD)")
	cmd.AddCommand(trialBalance)

	journal := &cobra.Command{
		Use:   "journal",
		Short: "Generate a journal report",
		Run: func(cmd *cobra.Command, args []string) {
			account, _ := cmd.Flags().GetString("account")
			target := "/api/v1/journal/report?posted_only=true"
			if account != "" {
				target += "&account_code=" + account
			}
			get(target)
		},
	}
	journal.Flags().String("account", "", "Restrict the report to one account code")
	cmd.AddCommand(journal)

	return cmd
}

func get(path string) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func post(path string, body any) {
	client := &http.Client{Timeout: timeout}

	payload := []byte(`{}`)
	if body != nil {
		payload, _ = json.Marshal(body)
	}

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		fmt.Println(string(raw))
		return
	}

	printJSON(data)
}

func printJSON(data any) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}
