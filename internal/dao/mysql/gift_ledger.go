package mysql

// GiftLedger 礼物账本，余额划转和房间计数在同一个事务里落库
type GiftLedger struct {
	repos *Repositories
}

// NewGiftLedger 创建礼物账本
func NewGiftLedger(repos *Repositories) *GiftLedger {
	return &GiftLedger{repos: repos}
}

// Transfer 执行一次礼物划转
// 发送方扣金币、接收方加金币和计数，房间统计同步累加
func (l *GiftLedger) Transfer(senderId, receiverId, roomId string, giftCount, totalCoin int64) error {
	return l.repos.Transaction(func(tx *Repositories) error {
		if err := tx.User.ApplyGiftTransfer(senderId, receiverId, totalCoin, giftCount); err != nil {
			return err
		}
		return tx.LiveRecord.ApplyGiftCounters(roomId, giftCount, totalCoin)
	})
}
