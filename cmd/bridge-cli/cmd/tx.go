package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"evm-bridge/internal/bridge"
	"evm-bridge/internal/fees"
	"evm-bridge/internal/model"
	"evm-bridge/internal/rpc"
	"evm-bridge/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// createCmd builds a default draft offline and writes it as raw JSON
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a default draft transaction (offline)",
	Run: func(cmd *cobra.Command, args []string) {
		currency := mustCurrency(cmd)

		address, _ := cmd.Flags().GetString("address")
		opsCount, _ := cmd.Flags().GetInt("ops-count")
		amount, _ := cmd.Flags().GetString("amount")
		recipient, _ := cmd.Flags().GetString("to")

		account := model.Account{
			ID:              currency.ID + ":" + address,
			FreshAddress:    address,
			OperationsCount: opsCount,
			Currency:        currency,
		}

		tx := bridge.CreateTransaction(account)
		if recipient != "" || amount != "0" {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				fail("invalid amount %q: %v", amount, err)
			}
			tx = bridge.UpdateTransaction(tx, bridge.TransactionPatch{
				Amount:    &amt,
				Recipient: &recipient,
			})
		}

		writeRaw(cmd, bridge.ToRaw(tx))
	},
}

// prepareCmd fills gas limit and fee fields from the configured node
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Fill gas limit and fee fields of a draft from the node",
	Run: func(cmd *cobra.Command, args []string) {
		currency := mustCurrency(cmd)
		tx := readRaw(cmd)

		address, _ := cmd.Flags().GetString("address")
		account := model.Account{
			ID:           currency.ID + ":" + address,
			FreshAddress: address,
			Currency:     currency,
		}

		node, err := rpc.New(currency)
		if err != nil {
			fail("cannot reach node: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		b := bridge.New(currency, node, fees.NewEstimator(currency, node), nil, nil, nil)
		prepared, err := b.PrepareTransaction(ctx, account, tx)
		if err != nil {
			fail("prepare failed: %v", err)
		}

		writeRaw(cmd, bridge.ToRaw(prepared))
	},
}

// broadcastCmd submits a signed payload
var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Broadcast a signed transaction",
	Run: func(cmd *cobra.Command, args []string) {
		currency := mustCurrency(cmd)

		signedHex, _ := cmd.Flags().GetString("signed")
		if signedHex == "" {
			file, _ := cmd.Flags().GetString("signed-file")
			data, err := os.ReadFile(file)
			if err != nil {
				fail("cannot read signed payload: %v", err)
			}
			signedHex = string(data)
		}

		node, err := rpc.New(currency)
		if err != nil {
			fail("cannot reach node: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		hash, err := node.Broadcast(ctx, signedHex)
		if err != nil {
			fail("broadcast failed: %v", err)
		}

		fmt.Printf("broadcast accepted: %s\n", hash)
	},
}

func mustCurrency(cmd *cobra.Command) model.Currency {
	config.Init()
	id, _ := cmd.Flags().GetString("currency")
	currency, ok := config.CurrencyByID(id)
	if !ok {
		fail("unknown currency %q", id)
	}
	return currency
}

func readRaw(cmd *cobra.Command) model.Transaction {
	file, _ := cmd.Flags().GetString("input")
	data, err := os.ReadFile(file)
	if err != nil {
		fail("cannot read draft: %v", err)
	}

	var raw model.TransactionRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		fail("draft is not valid JSON: %v", err)
	}

	tx, err := bridge.FromRaw(raw)
	if err != nil {
		fail("draft is not a valid transaction: %v", err)
	}
	return tx
}

func writeRaw(cmd *cobra.Command, raw model.TransactionRaw) {
	file, _ := cmd.Flags().GetString("output")
	data, _ := json.MarshalIndent(raw, "", "  ")

	if err := os.WriteFile(file, data, 0644); err != nil {
		fail("cannot write %s: %v", file, err)
	}
	fmt.Printf("written: %s\n", file)
}

func fail(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func init() {
	for _, c := range []*cobra.Command{createCmd, prepareCmd, broadcastCmd} {
		c.Flags().String("currency", "ethereum", "configured currency id")
		rootCmd.AddCommand(c)
	}

	createCmd.Flags().String("address", "", "sender address")
	createCmd.Flags().Int("ops-count", 0, "account operations count (for the optimistic nonce)")
	createCmd.Flags().String("to", "", "recipient address")
	createCmd.Flags().String("amount", "0", "amount in wei")
	createCmd.Flags().StringP("output", "o", "draft.json", "output file")
	createCmd.MarkFlagRequired("address")

	prepareCmd.Flags().String("address", "", "sender address")
	prepareCmd.Flags().StringP("input", "i", "draft.json", "draft file")
	prepareCmd.Flags().StringP("output", "o", "prepared.json", "output file")
	prepareCmd.MarkFlagRequired("address")

	broadcastCmd.Flags().String("signed", "", "signed payload hex")
	broadcastCmd.Flags().String("signed-file", "signed.hex", "file holding the signed payload hex")
}
