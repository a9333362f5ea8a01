package service

import (
	"context"
	"log"
	"time"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"

	"gorm.io/gorm"
)

// ReputationReconciler 定时从流水重算 users.reputation，缓存漂移兜底
type ReputationReconciler struct {
	repo      *mysql.ReputationReconcilerRepo
	batchSize int
	interval  time.Duration
	lastID    uint64 // 批次游标，扫完一轮归零
}

type Sender func(ctx context.Context, ob *model.ReputationOutbox) error

// OutboxRelayer 把已提交的声望事件从 outbox 表投给 Kafka
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewReputationReconciler(db *gorm.DB) *ReputationReconciler {
	return &ReputationReconciler{
		repo:      &mysql.ReputationReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run relayer 启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// LogSender 默认 sender：只打日志，部署时换 KafkaSender
func LogSender(ctx context.Context, ob *model.ReputationOutbox) error {
	log.Printf("OUTBOX SEND user=%d entry=%d payload=%s", ob.UserID, ob.EntryID, ob.Payload)
	return nil
}

// KafkaSender 按 userID 作 key 投递，同一用户的事件落同一分区
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ReputationOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.UserID), []byte(ob.Payload))
	}
}

// Run 对账定时任务启动器
func (r *ReputationReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

// 对账一次：比对缓存与流水真实值，不一致就覆盖修正
func (r *ReputationReconciler) reconcileOnce(ctx context.Context) {
	users, nextID, err := r.repo.ReconcileList(ctx, r.batchSize, r.lastID)
	if err != nil {
		log.Printf("reconcile list err: %v", err)
		return
	}
	if len(users) == 0 {
		r.lastID = 0
		return
	}
	r.lastID = nextID

	for _, u := range users {
		real, err := r.repo.RealTotal(ctx, u.ID)
		if err != nil {
			continue
		}
		if real != u.Reputation {
			log.Printf("reputation drift: user=%d cached=%d real=%d", u.ID, u.Reputation, real)
			_ = r.repo.ReconcileTotal(ctx, u.ID, real)
		}
	}
}
