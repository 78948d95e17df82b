package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/retention-center/internal/adapter/storage/postgres"
	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/ports"
	"github.com/seu-repo/retention-center/pkg/config"
)

var (
	customerCount = flag.Int("customers", 200, "Number of demo customers to create")
	historyMonths = flag.Int("months", 24, "Months of order history to generate")
	adminEmail    = flag.String("admin-email", "admin@example.com", "Admin account email")
	adminPassword = flag.String("admin-password", "admin123", "Admin account password")
	randSeed      = flag.Int64("seed", 42, "Random seed, fixed for reproducible datasets")
	confirm       = flag.Bool("confirm", false, "Required; the seeder writes demo rows into the configured database")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
)

var (
	groups      = []string{"enterprise", "strategic", "vip", "commercial", "smb", "retail", "education"}
	territories = []string{"North", "South", "East", "West", "Central"}
	products    = []string{"Security", "Trend Micro", "Kaspersky", "Bitdefender", "Norton", "McAfee"}
	orderTypes  = []domain.OrderType{
		domain.OrderTypeRenewal,
		domain.OrderTypeExtensionPrivate,
		domain.OrderTypeExtensionBusiness,
		domain.OrderTypeNewPrivate,
		domain.OrderTypeNewBusiness,
	}
	salespeople = []string{"Ana Souza", "Bruno Lima", "Carla Mendes", "Diego Rocha"}
	firstNames  = []string{"Atlas", "Borealis", "Cedar", "Delta", "Evergreen", "Falcon", "Granite", "Harbor", "Ironwood", "Juniper", "Keystone", "Lighthouse", "Meridian", "Northwind", "Orchard", "Pinnacle", "Quartz", "Redwood", "Summit", "Tidewater"}
	lastNames   = []string{"Logistics", "Consulting", "Industries", "Partners", "Holdings", "Solutions", "Group", "Labs", "Systems", "Trading"}
)

func main() {
	flag.Parse()

	if !*confirm {
		fmt.Fprintln(os.Stderr, "Refusing to seed without -confirm; this writes demo rows into the configured database")
		os.Exit(1)
	}

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	customers := postgres.NewCustomerRepository(db, logger)
	orders := postgres.NewOrderRepository(db, logger)
	subscriptions := postgres.NewSubscriptionRepository(db, logger)
	users := postgres.NewUserRepository(db, logger)

	rng := rand.New(rand.NewSource(*randSeed))
	ctx := context.Background()
	now := time.Now().UTC()

	if err := seedAdmin(ctx, users, logger); err != nil {
		logger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	var orderTotal, subTotal int
	for i := 0; i < *customerCount; i++ {
		customer := randomCustomer(rng, i, now)
		if err := customers.Save(ctx, customer); err != nil {
			logger.Fatal("Failed to save customer", zap.String("customer_id", customer.ID), zap.Error(err))
		}

		n, err := seedOrders(ctx, orders, rng, customer, now)
		if err != nil {
			logger.Fatal("Failed to seed orders", zap.String("customer_id", customer.ID), zap.Error(err))
		}
		orderTotal += n

		// Roughly two thirds of customers hold a subscription; the rest
		// exercise the dormancy classification paths.
		if rng.Intn(3) != 0 {
			if err := seedSubscription(ctx, subscriptions, rng, customer, now); err != nil {
				logger.Fatal("Failed to seed subscription", zap.String("customer_id", customer.ID), zap.Error(err))
			}
			subTotal++
		}
	}

	logger.Info("Demo data seeded",
		zap.Int("customers", *customerCount),
		zap.Int("orders", orderTotal),
		zap.Int("subscriptions", subTotal),
	)
}

func seedAdmin(ctx context.Context, users ports.UserRepository, logger *zap.Logger) error {
	existing, err := users.FindByEmail(ctx, *adminEmail)
	if err == nil && existing != nil {
		logger.Info("Admin user already present", zap.String("email", *adminEmail))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.Save(ctx, &domain.User{
		ID:       uuid.New().String(),
		Name:     "Admin",
		Email:    *adminEmail,
		Password: string(hash),
		Role:     domain.UserRoleAdmin,
		Status:   "Active",
	})
}

func randomCustomer(rng *rand.Rand, i int, now time.Time) *domain.Customer {
	name := fmt.Sprintf("%s %s", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))])
	return &domain.Customer{
		ID:            fmt.Sprintf("CUST-%05d", i+1),
		CustomerName:  name,
		Email:         fmt.Sprintf("contact%d@example.com", i+1),
		Phone:         fmt.Sprintf("+55 11 9%04d-%04d", rng.Intn(10000), rng.Intn(10000)),
		CustomerGroup: groups[rng.Intn(len(groups))],
		Territory:     territories[rng.Intn(len(territories))],
		Disabled:      rng.Intn(20) == 0,
		CreatedAt:     now.AddDate(0, -rng.Intn(*historyMonths+12), -rng.Intn(28)),
	}
}

func seedOrders(ctx context.Context, orders ports.OrderRepository, rng *rand.Rand, customer *domain.Customer, now time.Time) (int, error) {
	count := 1 + rng.Intn(8)
	for j := 0; j < count; j++ {
		product := products[rng.Intn(len(products))]
		orderType := orderTypes[rng.Intn(len(orderTypes))]
		seats := 0
		if rng.Intn(2) == 0 {
			seats = 1 + rng.Intn(25)
		}
		order := &domain.Order{
			ID:              fmt.Sprintf("SO-%s-%03d", customer.ID, j+1),
			CustomerID:      customer.ID,
			TransactionDate: now.AddDate(0, -rng.Intn(*historyMonths), -rng.Intn(28)),
			GrandTotal:      float64(100+rng.Intn(12000)) + rng.Float64(),
			Status:          domain.OrderStatusCompleted,
			OrderType:       orderType,
			Product:         product,
			Seats:           seats,
			Salesperson:     salespeople[rng.Intn(len(salespeople))],
		}
		if err := orders.Save(ctx, order); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func seedSubscription(ctx context.Context, subscriptions ports.SubscriptionRepository, rng *rand.Rand, customer *domain.Customer, now time.Time) error {
	// End dates spread from 60 days overdue to a year out so every renewal
	// status shows up on the dashboard.
	end := now.AddDate(0, 0, rng.Intn(425)-60)
	status := domain.SubscriptionStatusActive
	if end.Before(now) && rng.Intn(2) == 0 {
		status = domain.SubscriptionStatusPastDueDate
	}
	return subscriptions.Save(ctx, &domain.Subscription{
		ID:         fmt.Sprintf("SUB-%s", customer.ID),
		CustomerID: customer.ID,
		StartDate:  end.AddDate(-1, 0, 0),
		EndDate:    end,
		Status:     status,
	})
}
