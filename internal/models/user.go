package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string
type UserStatus string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAdmin    UserType = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email" validate:"required,email"`
	Phone       string             `json:"phone" bson:"phone"`
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	UserType    UserType           `json:"user_type" bson:"user_type" default:"customer"`
	Status      UserStatus         `json:"status" bson:"status" default:"active"`
	TotalOrders int                `json:"total_orders" bson:"total_orders" default:"0"`
	Addresses   []Address          `json:"addresses" bson:"addresses"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
