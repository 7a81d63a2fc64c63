// Package cli is the interactive terminal front end. It only talks to the
// ledger through its public operations and owns none of the rules.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/bank"
	"ledger/internal/currency"
	"ledger/internal/money"
	"ledger/internal/validator"

	"github.com/charmbracelet/log"
)

var (
	mainMenu = []string{"Create Account", "Log In", "Exit"}

	accountMenu = []string{
		"Deposit",
		"Withdraw",
		"Transfer",
		"View Transactions",
		"Convert Currency",
		"Check Balance",
		"Log Out",
	}
)

type App struct {
	ledger *bank.Ledger
	prompt Prompter
	out    io.Writer
	logger *log.Logger
}

func New(ledger *bank.Ledger, prompt Prompter, out io.Writer, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{ledger: ledger, prompt: prompt, out: out, logger: logger}
}

// Run drives the main menu until the user exits, then saves the ledger.
func (a *App) Run(ctx context.Context) error {
	for {
		choice, err := a.prompt.Choose("Welcome to the Bank! What would you like to do?", mainMenu)
		if err != nil {
			if !errors.Is(err, ErrAborted) {
				a.logger.Error("prompt failed", "err", err)
			}
			break
		}
		if choice == 2 {
			break
		}
		switch choice {
		case 0:
			err = a.createAccount(ctx)
		case 1:
			err = a.login(ctx)
		}
		if errors.Is(err, ErrAborted) {
			break
		}
	}
	if err := a.ledger.Save(ctx); err != nil {
		a.logger.Error("error saving accounts", "err", err)
		return err
	}
	fmt.Fprintln(a.out, "Thank you for using our banking system!")
	return nil
}

func (a *App) createAccount(ctx context.Context) error {
	id, err := a.prompt.Input("Enter Account ID", "")
	if err != nil {
		return err
	}
	owner, err := a.prompt.Input("Enter Owner Name", "")
	if err != nil {
		return err
	}
	pin, err := a.prompt.Secret("Create a PIN")
	if err != nil {
		return err
	}
	rawInitial, err := a.prompt.Input("Initial Deposit Amount (£)", "0.00")
	if err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	for _, check := range []error{
		validator.ValidateAccountID(id),
		validator.ValidateOwnerName(owner),
		validator.ValidatePIN(pin),
	} {
		if check != nil {
			fmt.Fprintf(a.out, "Could not create account: %v.\n", check)
			return nil
		}
	}
	initial, err := money.Parse(rawInitial)
	if err != nil {
		fmt.Fprintf(a.out, "Could not create account: %v.\n", err)
		return nil
	}
	if _, err := a.ledger.CreateAccount(ctx, id, strings.TrimSpace(owner), pin, initial); err != nil {
		fmt.Fprintln(a.out, explain(err))
		return nil
	}
	fmt.Fprintln(a.out, "Account successfully created.")
	return nil
}

func (a *App) login(ctx context.Context) error {
	id, err := a.prompt.Input("Please enter your Account ID", "")
	if err != nil {
		return err
	}
	pin, err := a.prompt.Secret("Enter your PIN")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if err := a.ledger.Login(ctx, id, pin); err != nil {
		switch {
		case errors.Is(err, bank.ErrInvalidPIN):
			account, lookupErr := a.ledger.Account(id)
			if lookupErr != nil {
				fmt.Fprintln(a.out, "Invalid PIN.")
				return nil
			}
			policy := a.ledger.Lockout()
			attempts := account.View().FailedLoginAttempts
			fmt.Fprintf(a.out, "Invalid PIN. Attempt %d/%d\n", attempts, policy.Threshold)
			if attempts >= policy.Threshold {
				fmt.Fprintf(a.out, "Account is locked. Please try again after %s.\n", policy.Window)
			}
		case errors.Is(err, bank.ErrNotFound):
			fmt.Fprintln(a.out, "Account ID not found.")
		case errors.Is(err, bank.ErrLocked):
			fmt.Fprintln(a.out, "Account is temporarily locked. Please try again later.")
		default:
			fmt.Fprintln(a.out, explain(err))
		}
		return nil
	}
	fmt.Fprintln(a.out, "Login successful.")
	account, err := a.ledger.Account(id)
	if err != nil {
		fmt.Fprintln(a.out, explain(err))
		return nil
	}
	return a.accountLoop(ctx, account)
}

func (a *App) accountLoop(ctx context.Context, account *bank.Account) error {
	for {
		title := fmt.Sprintf("Welcome! Your current balance is £%s", money.Format(account.Balance()))
		choice, err := a.prompt.Choose(title, accountMenu)
		if err != nil {
			return err
		}
		switch accountMenu[choice] {
		case "Deposit":
			err = a.deposit(ctx, account)
		case "Withdraw":
			err = a.withdraw(ctx, account)
		case "Transfer":
			err = a.transfer(ctx, account)
		case "View Transactions":
			a.printTransactions(account)
		case "Convert Currency":
			err = a.convert(account)
		case "Check Balance":
			fmt.Fprintf(a.out, "Current Balance: £%s\n", money.Format(account.Balance()))
		case "Log Out":
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) deposit(ctx context.Context, account *bank.Account) error {
	rawAmount, err := a.prompt.Input("Enter the amount to deposit", "0.00")
	if err != nil {
		return err
	}
	code, err := a.prompt.Input("Enter the currency (default GBP)", currency.Reference)
	if err != nil {
		return err
	}
	amount, err := money.Parse(rawAmount)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid amount: %v.\n", err)
		return nil
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = currency.Reference
	}
	tx, err := a.ledger.Deposit(ctx, account.ID(), amount, code)
	if err != nil {
		fmt.Fprintln(a.out, explain(err))
		return nil
	}
	fmt.Fprintf(a.out, "Deposited %s (£%s)\n", money.FormatWithCurrency(amount, code), money.Format(tx.Amount))
	return nil
}

func (a *App) withdraw(ctx context.Context, account *bank.Account) error {
	rawAmount, err := a.prompt.Input("Enter the amount to withdraw (£)", "0.00")
	if err != nil {
		return err
	}
	amount, err := money.Parse(rawAmount)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid amount: %v.\n", err)
		return nil
	}
	if _, err := a.ledger.Withdraw(ctx, account.ID(), amount); err != nil {
		fmt.Fprintln(a.out, explain(err))
		return nil
	}
	fmt.Fprintf(a.out, "Withdrew £%s\n", money.Format(amount))
	return nil
}

func (a *App) transfer(ctx context.Context, account *bank.Account) error {
	to, err := a.prompt.Input("Transfer to Account ID", "")
	if err != nil {
		return err
	}
	rawAmount, err := a.prompt.Input("Enter the amount to transfer (£)", "0.00")
	if err != nil {
		return err
	}
	amount, err := money.Parse(rawAmount)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid amount: %v.\n", err)
		return nil
	}
	to = strings.TrimSpace(to)
	if err := a.ledger.Transfer(ctx, account.ID(), to, amount); err != nil {
		fmt.Fprintln(a.out, explain(err))
		return nil
	}
	fmt.Fprintf(a.out, "Transferred £%s to %s\n", money.Format(amount), to)
	return nil
}

func (a *App) printTransactions(account *bank.Account) {
	fmt.Fprintln(a.out, "Transaction History:")
	for _, tx := range account.Transactions() {
		fmt.Fprintf(a.out, "%s: %s £%s %s\n",
			tx.Date.Format("2006-01-02 15:04:05"), tx.Description, money.Format(tx.Amount), tx.Currency)
	}
}

func (a *App) convert(account *bank.Account) error {
	codes := a.ledger.Rates().Codes()
	fmt.Fprintf(a.out, "Your current balance: £%s\n", money.Format(account.Balance()))
	target, err := a.prompt.Input(fmt.Sprintf("Enter the currency to convert to (%s)", strings.Join(codes[1:], ", ")), "")
	if err != nil {
		return err
	}
	target = strings.ToUpper(strings.TrimSpace(target))
	converted, err := account.BalanceIn(target)
	if err != nil || converted.IsZero() {
		fmt.Fprintln(a.out, "Invalid currency or conversion error.")
		return nil
	}
	fmt.Fprintf(a.out, "Your balance in %s: %s\n", target, money.Format(converted))
	return nil
}

// explain returns the user-facing message of a ledger outcome.
func explain(err error) string {
	var ledgerErr *bank.Error
	if errors.As(err, &ledgerErr) {
		msg := ledgerErr.Message
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
	return err.Error()
}
