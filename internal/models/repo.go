package models

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/devevents/internal/helpers"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return helpers.IsEmail(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct tags and reports the first failing field as
// a ValidationError. Element errors from dive ("tags[2]") are reported
// against the list field.
func validateStruct(s any) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return err
	}
	ve := vErrs[0]
	field := ve.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return invalid(field, fmt.Errorf("failed %q check", ve.Tag()))
}

// ClientProvider hands out the shared database client, connecting on first use.
type ClientProvider interface {
	Acquire(ctx context.Context) (*mongo.Client, error)
}

type MongodbRepo struct {
	clients ClientProvider
	dbName  string
}

func MongodbNewRepo(clients ClientProvider, dbName string) *MongodbRepo {
	return &MongodbRepo{
		clients: clients,
		dbName:  dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.clients == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	client, err := mdb.clients.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the unique slug index and the lookup indexes used by
// event and booking queries. It takes the database directly so it can run
// while a connection is being established.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(EventsColName).Indexes().CreateMany(ctx, eventIndexes()); err != nil {
		return fmt.Errorf("error creating event indexes: %w", err)
	}
	if _, err := db.Collection(BookingsColName).Indexes().CreateMany(ctx, bookingIndexes()); err != nil {
		return fmt.Errorf("error creating booking indexes: %w", err)
	}
	return nil
}
