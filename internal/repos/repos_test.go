package repos

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

var testDBCounter atomic.Int64

func openTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()

	// A distinct shared-cache name per test keeps the in-memory database
	// alive across pooled connections without leaking state between tests.
	dsn := fmt.Sprintf("file:repos_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.Agent{}, &types.Dialog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)

	return db, log
}
