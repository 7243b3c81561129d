package llmconfig

import (
	"strings"
	"testing"

	"github.com/aben/console/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestListQueryOrder(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/admin_console?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatal(err)
	}
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []models.LLMProviderConfig
		return listQuery(tx, "t1").Find(&out)
	})
	if !strings.Contains(sql, "ORDER BY provider ASC, is_default DESC, updated_at DESC, created_at DESC") {
		t.Fatalf("sql = %s", sql)
	}
	if !strings.Contains(sql, "tenant_id = 't1'") {
		t.Fatalf("sql = %s", sql)
	}
}

func TestUpdateColumns(t *testing.T) {
	cols := updateColumns(Save{Provider: "openai", Status: "enabled"})
	if _, ok := cols["api_key"]; ok {
		t.Fatal("api key must not be touched without UpdateAPIKey")
	}
	if _, ok := cols["is_default"]; ok {
		t.Fatal("is_default must not be touched when unset")
	}
	f := false
	cols = updateColumns(Save{UpdateAPIKey: true, IsDefault: &f})
	if _, ok := cols["api_key_last4"]; !ok || cols["is_default"] != false {
		t.Fatalf("cols = %v", cols)
	}
}
