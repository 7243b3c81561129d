package database

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestUniqueViolation(t *testing.T) {
	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 't1-abc' for key 'clients.idx_clients_tenant_code'"}
	wrapped := fmt.Errorf("insert client: %w", dup)

	if !IsUniqueViolation(wrapped) {
		t.Fatal("wrapped duplicate entry not detected")
	}
	if got := UniqueConstraint(wrapped); got != "idx_clients_tenant_code" {
		t.Fatalf("constraint = %q", got)
	}

	legacy := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'idx_users_email'"}
	if got := UniqueConstraint(legacy); got != "idx_users_email" {
		t.Fatalf("legacy constraint = %q", got)
	}

	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatal("gorm duplicated key not detected")
	}
	other := &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found"}
	if IsUniqueViolation(other) || UniqueConstraint(other) != "" {
		t.Fatal("deadlock reported as unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) || IsUniqueViolation(nil) {
		t.Fatal("plain error reported as unique violation")
	}
}
