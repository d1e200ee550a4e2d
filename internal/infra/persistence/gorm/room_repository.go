package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
)

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// FindByID 实现根据房间 ID 查找持久化记录
func (r *GormRoomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, "room_id = ?", roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id '%s': %w", roomID, err)
	}
	return &room, nil
}

// FindAll 实现返回全部房间记录
func (r *GormRoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all rooms: %w", err)
	}
	return rooms, nil
}

// Upsert 实现房间记录的局部写入。
// 记录不存在时按默认值插入（code=""、language="python"），
// 存在时只更新 fields 中提供的列并刷新 updated_at。
func (r *GormRoomRepository) Upsert(ctx context.Context, roomID string, fields repository.RoomFields) error {
	room := domain.Room{
		RoomID:      roomID,
		Code:        "",
		Language:    domain.DefaultLanguage,
		ActiveUsers: domain.StringList{},
	}
	assignments := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if fields.Code != nil {
		room.Code = *fields.Code
		assignments["code"] = *fields.Code
	}
	if fields.Language != nil {
		room.Language = *fields.Language
		assignments["language"] = *fields.Language
	}
	if fields.ActiveUsers != nil {
		room.ActiveUsers = domain.StringList(*fields.ActiveUsers)
		assignments["active_users"] = room.ActiveUsers
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&room).Error
	if err != nil {
		// 健壮的唯一约束检查 (MySQL 1062)；OnConflict 下理论上不会触发
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: upsert room '%s': %w", roomID, err)
	}
	return nil
}
