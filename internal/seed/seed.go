package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"tradepost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder populates the database with realistic marketplace data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Order matters: children before parents.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []interface{}{
		&models.Message{},
		&models.Favorite{},
		&models.Like{},
		&models.Comment{},
		&models.Goods{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedMarketplace creates users with listings and returns the users.
func (s *Seeder) SeedMarketplace(numUsers, numGoods int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", numUsers)
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}

	log.Printf("Seeding %d goods...", numGoods)
	goods := make([]*models.Goods, 0, numGoods)
	for i := 0; i < numGoods; i++ {
		seller := users[s.rng.Intn(len(users))]
		g, err := s.factory.CreateGoods(seller)
		if err != nil {
			return nil, fmt.Errorf("failed to create goods %d: %w", i, err)
		}
		goods = append(goods, g)
	}

	// Sell roughly a quarter of the listings to someone else.
	sold := 0
	for _, g := range goods {
		if s.rng.Intn(4) != 0 {
			continue
		}
		buyer := users[s.rng.Intn(len(users))]
		if g.SellerID != nil && buyer.ID == *g.SellerID {
			continue
		}
		soldAt := g.CreatedAt.Add(time.Duration(s.rng.Intn(72)+1) * time.Hour)
		err := s.db.Model(g).
			Where("id = ? AND is_sold = ?", g.ID, false).
			Updates(map[string]interface{}{
				"buyer_id": buyer.ID,
				"is_sold":  true,
				"sold_at":  soldAt,
			}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to sell goods %d: %w", g.ID, err)
		}
		sold++
	}
	log.Printf("Marked %d goods as sold", sold)

	return users, nil
}

// SeedEngagement adds comments, likes, favorites and messages on existing
// goods from the given users.
func (s *Seeder) SeedEngagement(users []*models.User) error {
	var goods []*models.Goods
	if err := s.db.Find(&goods).Error; err != nil {
		return err
	}
	if len(goods) == 0 || len(users) == 0 {
		return nil
	}

	log.Println("Seeding engagement (comments, likes, favorites, messages)...")
	for _, g := range goods {
		for i := 0; i < s.rng.Intn(4); i++ {
			user := users[s.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(user, g); err != nil {
				return err
			}
		}

		for i := 0; i < s.rng.Intn(6); i++ {
			user := users[s.rng.Intn(len(users))]
			like := models.Like{GoodsID: g.ID, UserID: user.ID}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
		}

		for i := 0; i < s.rng.Intn(3); i++ {
			user := users[s.rng.Intn(len(users))]
			fav := models.Favorite{GoodsID: g.ID, UserID: user.ID}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
				return err
			}
		}

		if g.SellerID != nil && s.rng.Intn(2) == 0 {
			sender := users[s.rng.Intn(len(users))]
			if sender.ID == *g.SellerID {
				continue
			}
			if _, err := s.factory.CreateMessage(sender, g); err != nil {
				return err
			}
		}
	}
	return nil
}
