package team

import (
	"strings"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestMembersQuery(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/admin_console?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(db)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []Member
		return svc.membersQuery(tx, "t1").Find(&out)
	})
	for _, want := range []string{
		"FROM tenant_users AS tu",
		"JOIN users u ON u.id = tu.user_id",
		"WHERE tu.tenant_id = 't1'",
		"ORDER BY tu.joined_at ASC",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("sql %q missing %q", sql, want)
		}
	}
}
