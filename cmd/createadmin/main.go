package main

import (
	"flag"
	"log"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"

	"golang.org/x/crypto/bcrypt"
)

// 创建或提升管理员账号：
//
//	go run ./cmd/createadmin -email admin@mentorstack.dev -password admin123 -name "Admin User"
func main() {
	email := flag.String("email", "admin@mentorstack.dev", "admin email")
	password := flag.String("password", "admin123", "admin password")
	name := flag.String("name", "Admin User", "admin display name")
	dsn := flag.String("dsn", "user:password@tcp(127.0.0.1:3306)/mentorstack?charset=utf8mb4&parseTime=True", "mysql dsn")
	flag.Parse()

	if err := mysql.InitDB(*dsn); err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := &mysql.UserRepository{DB: mysql.DB}

	if existing, err := repo.FindByEmail(*email); err == nil {
		if existing.Role == model.RoleAdmin {
			log.Printf("already an admin: %s", existing.Email)
			return
		}
		// 已有账号则原地提权，密码不变
		if err := repo.UpdateRole(existing.ID, model.RoleAdmin); err != nil {
			log.Fatalf("promote failed: %v", err)
		}
		log.Printf("promoted to admin: %s (use existing password)", existing.Email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatalf("hash failed: %v", err)
	}
	admin := &model.User{
		Name:     *name,
		Email:    *email,
		Password: string(hash),
		Role:     model.RoleAdmin,
		Bio:      "Platform Administrator",
	}
	if err := repo.Create(admin); err != nil {
		log.Fatalf("create failed: %v", err)
	}
	log.Printf("admin created: %s (change the password after first login)", admin.Email)
}
