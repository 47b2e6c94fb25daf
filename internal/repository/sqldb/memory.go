package sqldb

import (
	"alcyxob/trainer-planner/internal/logger"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenMemory opens a private migrated in-memory sqlite database.
// Each call gets its own database, so tests never share state.
func OpenMemory(log *logger.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return Open("sqlite", dsn, log)
}
