package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"muse_live_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type liveRecordRepository struct {
	db *gorm.DB
}

// NewLiveRecordRepository 创建直播记录 Repository
func NewLiveRecordRepository(db *gorm.DB) LiveRecordRepository {
	return &liveRecordRepository{db: db}
}

// FindByUuid 按房间号查找直播记录
func (r *liveRecordRepository) FindByUuid(uuid string) (*model.LiveRecord, error) {
	var record model.LiveRecord
	if err := r.db.First(&record, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询直播记录 uuid=%s", uuid)
	}
	return &record, nil
}

// Create 创建直播记录
func (r *liveRecordRepository) Create(record *model.LiveRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return wrapDBError(err, "创建直播记录")
	}
	return nil
}

// End 结束直播，重复调用不报错
func (r *liveRecordRepository) End(uuid string) error {
	err := r.db.Model(&model.LiveRecord{}).
		Where("uuid = ? AND is_active = 1", uuid).
		Updates(map[string]interface{}{
			"is_active": int8(0),
			"ended_at":  sql.NullTime{Time: time.Now(), Valid: true},
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "结束直播 uuid=%s", uuid)
	}
	return nil
}

// AddView 调整观看人数，数据库里不允许出现负值
func (r *liveRecordRepository) AddView(uuid string, delta int64) error {
	err := r.db.Model(&model.LiveRecord{}).
		Where("uuid = ?", uuid).
		Update("view", gorm.Expr("GREATEST(CAST(view AS SIGNED) + ?, 0)", delta)).Error
	if err != nil {
		return wrapDBErrorf(err, "更新观看人数 uuid=%s delta=%d", uuid, delta)
	}
	return nil
}

// AddViewerUser 把观众并入观众集合
func (r *liveRecordRepository) AddViewerUser(uuid, userId string) error {
	return r.mutateUserSet(uuid, "viewers", func(set []string) ([]string, bool) {
		return appendUnique(set, userId)
	})
}

// AddRequestedUser 把用户并入上麦申请集合
func (r *liveRecordRepository) AddRequestedUser(uuid, userId string) error {
	return r.mutateUserSet(uuid, "requested_users", func(set []string) ([]string, bool) {
		return appendUnique(set, userId)
	})
}

// AddBlockedUser 把用户并入拉黑集合
func (r *liveRecordRepository) AddBlockedUser(uuid, userId string) error {
	return r.mutateUserSet(uuid, "blocked_users", func(set []string) ([]string, bool) {
		return appendUnique(set, userId)
	})
}

// RemoveBlockedUser 把用户移出拉黑集合
func (r *liveRecordRepository) RemoveBlockedUser(uuid, userId string) error {
	return r.mutateUserSet(uuid, "blocked_users", func(set []string) ([]string, bool) {
		for i, v := range set {
			if v == userId {
				return append(set[:i], set[i+1:]...), true
			}
		}
		return set, false
	})
}

// mutateUserSet 读改写一个 JSON 集合列
// 行锁避免并发丢失更新；mutate 返回 false 表示集合没有变化，跳过写回
func (r *liveRecordRepository) mutateUserSet(uuid, column string, mutate func([]string) ([]string, bool)) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var record model.LiveRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "uuid = ?", uuid).Error; err != nil {
			return err
		}

		raw := ""
		switch column {
		case "viewers":
			raw = record.Viewers
		case "requested_users":
			raw = record.RequestedUsers
		case "blocked_users":
			raw = record.BlockedUsers
		}
		var set []string
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &set); err != nil {
				// 列内容损坏时重建集合，不让整条更新失败
				set = nil
			}
		}

		next, changed := mutate(set)
		if !changed {
			return nil
		}
		encoded, err := json.Marshal(next)
		if err != nil {
			return err
		}
		return tx.Model(&model.LiveRecord{}).
			Where("uuid = ?", uuid).
			Update(column, string(encoded)).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "更新集合列 uuid=%s column=%s", uuid, column)
	}
	return nil
}

// appendUnique 集合式追加，已存在时返回原集合和 false
func appendUnique(set []string, userId string) ([]string, bool) {
	for _, v := range set {
		if v == userId {
			return set, false
		}
	}
	return append(set, userId), true
}

// ApplyGiftCounters 累加房间礼物计数
func (r *liveRecordRepository) ApplyGiftCounters(uuid string, giftCount, coinAmount int64) error {
	err := r.db.Model(&model.LiveRecord{}).
		Where("uuid = ?", uuid).
		Updates(map[string]interface{}{
			"total_gifts_received": gorm.Expr("total_gifts_received + ?", giftCount),
			"total_coins_earned":   gorm.Expr("total_coins_earned + ?", coinAmount),
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "更新礼物计数 uuid=%s", uuid)
	}
	return nil
}

// SetPkMode 标记房间是否处于 PK 模式
func (r *liveRecordRepository) SetPkMode(uuid string, isPkMode int8) error {
	err := r.db.Model(&model.LiveRecord{}).
		Where("uuid = ?", uuid).
		Update("is_pk_mode", isPkMode).Error
	if err != nil {
		return wrapDBErrorf(err, "更新 PK 状态 uuid=%s", uuid)
	}
	return nil
}
