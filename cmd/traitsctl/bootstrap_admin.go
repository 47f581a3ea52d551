package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traits-rail/traits-core/internal/authority"
)

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Hash a bootstrap admin password for BOOTSTRAP_ADMIN_HASH",
	RunE:  bootstrapAdmin,
}

func bootstrapAdmin(cmd *cobra.Command, args []string) error {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password = password[:len(password)-1] // trim trailing newline

	hash, err := authority.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fmt.Println(hash)
	return nil
}
