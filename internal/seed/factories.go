// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"tradepost/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var seedCategories = []string{
	models.CategoryElectronics,
	models.CategoryClothing,
	models.CategoryBooks,
	models.CategorySports,
	models.CategoryBeauty,
	models.CategoryHome,
	models.CategoryOther,
}

var seedConditions = []string{
	models.ConditionNew,
	models.ConditionLikeNew,
	models.ConditionGood,
	models.ConditionFair,
	models.ConditionNeedsRepair,
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGoods constructs and persists a sample listing for the given seller.
func (f *Factory) CreateGoods(seller *models.User, overrides ...func(*models.Goods)) (*models.Goods, error) {
	sellerID := seller.ID
	goods := &models.Goods{
		Name:        gofakeit.ProductName(),
		Price:       float64(gofakeit.Number(1, 50000)) / 100,
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Category:    seedCategories[f.rng.Intn(len(seedCategories))],
		Condition:   seedConditions[f.rng.Intn(len(seedConditions))],
		Location:    gofakeit.City(),
		Contact:     gofakeit.Phone(),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		SellerID:    &sellerID,
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	goods.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(goods)
	}

	if err := f.db.Create(goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// CreateComment constructs and persists a sample comment on a listing.
func (f *Factory) CreateComment(user *models.User, goods *models.Goods) (*models.Comment, error) {
	comment := &models.Comment{
		GoodsID: goods.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(f.rng.Intn(12) + 3),
		Rating:  f.rng.Intn(5) + 1,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateMessage constructs and persists a buyer inquiry to the seller.
func (f *Factory) CreateMessage(sender *models.User, goods *models.Goods) (*models.Message, error) {
	if goods.SellerID == nil {
		return nil, fmt.Errorf("goods %d has no seller", goods.ID)
	}
	message := &models.Message{
		GoodsID:    goods.ID,
		SenderID:   sender.ID,
		ReceiverID: *goods.SellerID,
		Content:    gofakeit.Question(),
		IsRead:     f.rng.Intn(2) == 0,
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}
