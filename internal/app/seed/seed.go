// Package seed fills an empty database with demo users and customers.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	authadapters "customer_backend/internal/feature/auth/adapters"
	customeradapters "customer_backend/internal/feature/customers/adapters"
	customerentity "customer_backend/internal/feature/customers/domain/entity"
	customerusecase "customer_backend/internal/feature/customers/usecase"
	useradapters "customer_backend/internal/feature/users/adapters"
	userentity "customer_backend/internal/feature/users/domain/entity"
	userusecase "customer_backend/internal/feature/users/usecase"
)

var users = []userusecase.CreateUserInput{
	{Name: "Administrador", Email: "admin@example.com", Password: "admin123", Role: userentity.RoleAdmin},
	{Name: "Usuário Padrão", Email: "user@example.com", Password: "user123", Role: userentity.RoleUser},
	{Name: "Usuário Teste", Email: "test@example.com", Password: "test123", Role: userentity.RoleUser},
}

var customers = []customerusecase.CreateCustomerInput{
	{RazaoSocial: "Tech Solutions Ltda", CNPJ: "11.222.333/0001-81", NomeFachada: "TechSol",
		Tags: []string{"tecnologia", "software"}, ConectaPlus: true},
	{RazaoSocial: "Comercial ABC S.A.", CNPJ: "60.646.588/0001-87", NomeFachada: "ABC Comércio",
		Tags: []string{"varejo"}},
	{RazaoSocial: "Indústria XYZ Ltda", CNPJ: "12.345.678/0001-95", NomeFachada: "XYZ Industrial",
		Tags: []string{"indústria", "manufatura"}, ConectaPlus: true},
	{RazaoSocial: "Startup Inovação ME", CNPJ: "98.765.432/0001-98", NomeFachada: "InovaTech",
		Tags: []string{"startup", "inovação", "tecnologia"}, ConectaPlus: true},
	{RazaoSocial: "Serviços Gerais Ltda", CNPJ: "55.666.777/0001-81", NomeFachada: "ServiGeral",
		Tags: []string{"serviços"}, Status: customerentity.StatusInactive},
	{RazaoSocial: "E-commerce Plus S.A.", CNPJ: "33.444.555/0001-81", NomeFachada: "EcomPlus",
		Tags: []string{"e-commerce", "varejo"}, ConectaPlus: true},
}

// Result counts the records created by Run.
type Result struct {
	Users     int
	Customers int
}

// Run seeds each table that is empty. With reset, sessions, customers and users are deleted first.
func Run(ctx context.Context, db *gorm.DB, reset bool, log *zap.Logger) (Result, error) {
	var res Result

	if reset {
		if err := wipe(ctx, db); err != nil {
			return res, err
		}
		log.Info("tables wiped")
	}

	userRepo := useradapters.NewUserGorm(db)
	n, err := userRepo.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	if n == 0 {
		uc := userusecase.NewUserUsecase(userRepo)
		for _, in := range users {
			if _, err := uc.Create(ctx, in); err != nil {
				return res, fmt.Errorf("seed user %s: %w", in.Email, err)
			}
			res.Users++
		}
	} else {
		log.Info("users table not empty, skipping", zap.Int64("count", n))
	}

	customerRepo := customeradapters.NewCustomerGorm(db)
	n, err = customerRepo.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count customers: %w", err)
	}
	if n == 0 {
		uc := customerusecase.NewCustomerUsecase(customerRepo)
		for _, in := range customers {
			if _, err := uc.Create(ctx, in); err != nil {
				return res, fmt.Errorf("seed customer %s: %w", in.CNPJ, err)
			}
			res.Customers++
		}
	} else {
		log.Info("customers table not empty, skipping", zap.Int64("count", n))
	}

	return res, nil
}

func wipe(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&authadapters.SessionModel{}, &customeradapters.CustomerModel{}, &useradapters.UserModel{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("wipe %T: %w", m, err)
			}
		}
		return nil
	})
}
