package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/pkg/auth"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// Seed 写入演示用户与商品，已存在则跳过
func Seed(db *gorm.DB) error {
	logger.Info("seeding demo data")

	password, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	users := []model.User{
		{Name: "admin", Email: "admin@example.com", PasswordHash: password, Role: model.RoleAdmin, Status: model.UserStatusActive},
		{Name: "seller1", Email: "seller1@example.com", PasswordHash: password, Role: model.RoleSeller, Status: model.UserStatusActive},
		{Name: "buyer1", Email: "buyer1@example.com", PasswordHash: password, Role: model.RoleBuyer, Status: model.UserStatusActive},
		{Name: "buyer2", Email: "buyer2@example.com", PasswordHash: password, Role: model.RoleBuyer, Status: model.UserStatusActive},
	}

	ids := make(map[string]int64, len(users))
	for i := range users {
		user := users[i]
		var existing model.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		switch {
		case err == nil:
			logger.Info("user already exists", zap.String("email", user.Email))
			ids[user.Name] = existing.UserID
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&user).Error; err != nil {
				return err
			}
			logger.Info("user seeded", zap.String("email", user.Email), zap.Int64("id", user.UserID))
			ids[user.Name] = user.UserID
		default:
			return err
		}
	}

	sellerID := ids["seller1"]
	var count int64
	if err := db.Model(&model.Product{}).Where("seller_id = ?", sellerID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	products := []model.Product{
		{SellerID: sellerID, Title: "二手单车", Description: "九成新，通勤用", Price: 500, Status: model.ProductStatusOnSale, CreatedAt: now},
		{SellerID: sellerID, Title: "机械键盘", Description: "茶轴，附原装键帽", Price: 320, Status: model.ProductStatusOnSale, CreatedAt: now},
		{SellerID: sellerID, Title: "微积分课本", Description: "有少量笔记", Price: 80, Status: model.ProductStatusOnSale, CreatedAt: now},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}
	logger.Info("seeding complete", zap.Int("products", len(products)))
	return nil
}
