package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/pkg/client"
)

func newClient() *client.Client {
	c := client.New(strings.TrimSuffix(addr, "/"))
	if token, err := loadToken(); err == nil {
		c.SetToken(token)
	}
	return c
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".libraryctl", "token"), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func newRegisterCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().Register(context.Background(), model.RegisterRequest{
				Username: args[0],
				Password: args[1],
				Role:     model.Role(role),
			})
			if err != nil {
				return err
			}
			if err := saveToken(resp.Token); err != nil {
				return err
			}
			fmt.Printf("registered as %s (%s)\n", resp.Username, resp.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "account role (member or admin)")
	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and store the token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().Login(context.Background(), model.LoginRequest{
				Username: args[0],
				Password: args[1],
			})
			if err != nil {
				return err
			}
			if err := saveToken(resp.Token); err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", resp.Username, resp.Role)
			return nil
		},
	}
}

func newBooksCmd() *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "Catalog operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := newClient().Books(context.Background())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tQTY\tCATEGORY")
			for _, b := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", b.ID, b.Title, b.Author, b.Quantity, b.Category)
			}
			return w.Flush()
		},
	}

	var (
		quantity    int
		description string
		isbn        string
		category    string
	)
	add := &cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add a book (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := newClient().CreateBook(context.Background(), model.BookRequest{
				Title:       args[0],
				Author:      args[1],
				Quantity:    &quantity,
				Description: &description,
				ISBN:        &isbn,
				Category:    &category,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s)\n", book.Title, book.ID)
			return nil
		},
	}
	add.Flags().IntVar(&quantity, "quantity", 1, "copies available")
	add.Flags().StringVar(&description, "description", "", "description")
	add.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	add.Flags().StringVar(&category, "category", "", "category")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newClient().Book(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s by %s\nquantity: %d, category: %s\nisbn: %s\n%s\n",
				b.Title, b.Author, b.Quantity, b.Category, b.ISBN, b.Description)
			return nil
		},
	}

	var (
		updQuantity    int
		updDescription string
		updISBN        string
		updCategory    string
	)
	update := &cobra.Command{
		Use:   "update <id> <title> <author>",
		Short: "Update a book (admin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// only flags the user set travel; omitted fields keep their
			// stored values server-side
			req := model.BookRequest{Title: args[1], Author: args[2]}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = &updQuantity
			}
			if cmd.Flags().Changed("description") {
				req.Description = &updDescription
			}
			if cmd.Flags().Changed("isbn") {
				req.ISBN = &updISBN
			}
			if cmd.Flags().Changed("category") {
				req.Category = &updCategory
			}

			book, err := newClient().UpdateBook(context.Background(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Printf("updated %s (%s)\n", book.Title, book.ID)
			return nil
		},
	}
	update.Flags().IntVar(&updQuantity, "quantity", 0, "copies available")
	update.Flags().StringVar(&updDescription, "description", "", "description")
	update.Flags().StringVar(&updISBN, "isbn", "", "ISBN")
	update.Flags().StringVar(&updCategory, "category", "", "category")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteBook(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	books.AddCommand(get, add, update, del)
	return books
}

func newBorrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <book-id>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trx, err := newClient().Borrow(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("borrowed %q, due %s (transaction %s)\n",
				trx.BookTitle, trx.DueDate.Format("2006-01-02"), trx.ID)
			return nil
		},
	}
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <transaction-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trx, err := newClient().Return(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("returned %q\n", trx.BookTitle)
			return nil
		},
	}
}

func printTransactions(items []model.TransactionDetails) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBOOK\tUSER\tBORROWED\tDUE\tSTATUS")
	for _, t := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.BookTitle, t.Username,
			t.BorrowDate.Format("2006-01-02"), t.DueDate.Format("2006-01-02"), t.Status)
	}
	return w.Flush()
}

func newBorrowedCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "borrowed",
		Short: "Active borrows (mine, or all with --all for admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			var (
				items []model.TransactionDetails
				err   error
			)
			if all {
				items, err = c.AllTransactions(context.Background())
			} else {
				items, err = c.MyBorrowed(context.Background())
			}
			if err != nil {
				return err
			}
			return printTransactions(items)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every transaction (admin)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <user-id>",
		Short: "Borrow history of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := newClient().History(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printTransactions(items)
		},
	}
}

func newUsersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "List members (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := newClient().Users(context.Background())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tSINCE")
			for _, u := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteUser(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	users.AddCommand(del)
	return users
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Dashboard counters (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := newClient().Stats(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("books: %d\nmembers: %d\nactive borrows: %d\ntransactions: %d\n",
				stats.TotalBooks, stats.TotalMembers, stats.ActiveBorrows, stats.TotalTransactions)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Service liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newClient().Health(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("status: %s, database: %s, uptime: %.0fs\n", h.Status, h.Database, h.Uptime)
			return nil
		},
	}
}
