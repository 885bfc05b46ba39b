package adapters

import (
	"time"

	"customer_backend/internal/feature/customers/domain/entity"
)

// CustomerModel is the GORM model for the customers table.
type CustomerModel struct {
	ID          uint      `gorm:"primaryKey"`
	RazaoSocial string    `gorm:"column:razao_social;size:100;not null"`
	CNPJ        string    `gorm:"column:cnpj;size:18;uniqueIndex;not null"`
	NomeFachada string    `gorm:"column:nome_fachada;size:255;not null"`
	Tags        []string  `gorm:"serializer:json"`
	Status      string    `gorm:"size:10;not null;default:ativo;index"`
	ConectaPlus bool      `gorm:"column:conecta_plus;not null;default:false"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}

// ToEntity converts the GORM model to a domain entity.
func (m *CustomerModel) ToEntity() *entity.Customer {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entity.Customer{
		ID:          m.ID,
		RazaoSocial: m.RazaoSocial,
		CNPJ:        m.CNPJ,
		NomeFachada: m.NomeFachada,
		Tags:        tags,
		Status:      entity.Status(m.Status),
		ConectaPlus: m.ConectaPlus,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CustomerModelFromEntity converts a domain entity to a GORM model.
func CustomerModelFromEntity(c *entity.Customer) *CustomerModel {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &CustomerModel{
		ID:          c.ID,
		RazaoSocial: c.RazaoSocial,
		CNPJ:        c.CNPJ,
		NomeFachada: c.NomeFachada,
		Tags:        tags,
		Status:      string(c.Status),
		ConectaPlus: c.ConectaPlus,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
