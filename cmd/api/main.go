package main

import (
	"context"
	"os"
	"strings"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/redis"
	"github.com/KrishnaNAcharya/mentorstack/internal/router"
	"github.com/KrishnaNAcharya/mentorstack/internal/service"
)

func main() {
	dsn := "user:password@tcp(127.0.0.1:3306)/mentorstack?charset=utf8mb4&parseTime=True"
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init("127.0.0.1:6379", "", 0); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.ReputationLedgerEntry{},
		&model.ReputationOutbox{},
		&model.Badge{},
		&model.BadgeAward{},
		&model.Question{},
		&model.Answer{},
		&model.Vote{},
	)

	ctx := context.Background()

	// outbox 投递器：配了 broker 走 Kafka，否则只打日志
	sender := service.LogSender
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   "reputation-events",
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(mysql.DB, sender)
	go relayer.Run(ctx)

	// 声望缓存对账
	reconciler := service.NewReputationReconciler(mysql.DB)
	go reconciler.Run(ctx)

	// Gin
	r := router.InitRouter(mysql.DB)
	if err := r.Run(":8080"); err != nil {
		return
	}
}
