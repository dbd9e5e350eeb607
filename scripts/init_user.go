package main

import (
	"fmt"
	"log"
	"os"

	"github.com/safetylog/internal/config"
	"github.com/safetylog/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// 本脚本为本地开发提供默认管理员账号；生产环境应通过
// SUPER_ROOT_USER_NAME/SUPER_ROOT_PASSWORD 环境变量由服务自举。
func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	username := os.Getenv("INIT_ADMIN_USER")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("INIT_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{
		Username: username,
		Password: string(hashedPassword),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("默认管理员用户创建成功")
	fmt.Println("用户名:", username)
}
