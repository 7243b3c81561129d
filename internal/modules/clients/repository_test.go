package clients

import (
	"strings"
	"testing"

	"github.com/aben/console/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestRepositoryQueries(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/admin_console?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatal(err)
	}

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []models.Client
		return tx.Where("tenant_id = ?", "t1").Order("created_at DESC").Find(&out)
	})
	if !strings.Contains(sql, "FROM `clients` WHERE tenant_id = 't1' ORDER BY created_at DESC") {
		t.Fatalf("list sql = %s", sql)
	}

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var c models.Client
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND id = ?", "t1", "c1").
			First(&c)
	})
	if !strings.HasSuffix(strings.TrimSpace(sql), "FOR UPDATE") {
		t.Fatalf("lock sql = %s", sql)
	}
}
