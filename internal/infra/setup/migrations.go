package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// 返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	// rooms 表以 room_id 作为主键，长度 191 以兼容 utf8mb4 索引限制
	if err := db.AutoMigrate(&domain.Room{}); err != nil {
		logrus.Errorf("Failed to auto-migrate rooms table: %v", err)
		return fmt.Errorf("failed to migrate rooms table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
