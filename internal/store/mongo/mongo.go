// Package mongo persists accounts in a MongoDB collection keyed by email,
// with events embedded as an array on the account document. Event
// mutations ride MongoDB's atomic single-document updates: $push on add,
// $pull on delete and a positional $set on edit.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fiscal/internal/core"
	"fiscal/internal/store"
)

const collectionName = "users"

type Repository struct {
	client *mongo.Client
	users  *mongo.Collection
}

var _ store.AccountRepository = (*Repository)(nil)

// New connects to MongoDB, pings it and ensures the unique email index.
func New(ctx context.Context, uri, database string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	users := client.Database(database).Collection(collectionName)
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create email index: %w", err)
	}

	return &Repository{client: client, users: users}, nil
}

// Close disconnects the underlying client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Persisted document shapes. Amounts are stored as integer cents.
type (
	accountDoc struct {
		Email     string     `bson:"email"`
		Password  string     `bson:"password"`
		Firstname string     `bson:"firstname"`
		Lastname  string     `bson:"lastname"`
		Events    []eventDoc `bson:"events"`
	}

	eventDoc struct {
		ID          string `bson:"_id"`
		AmountCents int64  `bson:"amount_cents"`
		Category    string `bson:"category"`
		Date        string `bson:"date"`
		Memo        string `bson:"memo"`
	}
)

func toEventDoc(e core.Event) eventDoc {
	return eventDoc{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Date:        e.Date,
		Memo:        e.Memo,
	}
}

func (d eventDoc) toEvent() core.Event {
	return core.Event{
		ID:       d.ID,
		Amount:   core.Money{Cents: d.AmountCents},
		Category: d.Category,
		Date:     d.Date,
		Memo:     d.Memo,
	}
}

func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	var doc accountDoc
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", email, err)
	}

	acct := &core.Account{
		Email:        doc.Email,
		PasswordHash: doc.Password,
		Firstname:    doc.Firstname,
		Lastname:     doc.Lastname,
		Events:       make([]core.Event, 0, len(doc.Events)),
	}
	for _, e := range doc.Events {
		acct.Events = append(acct.Events, e.toEvent())
	}
	return acct, nil
}

func (r *Repository) InsertAccount(ctx context.Context, account core.Account) error {
	doc := accountDoc{
		Email:     account.Email,
		Password:  account.PasswordHash,
		Firstname: account.Firstname,
		Lastname:  account.Lastname,
		Events:    []eventDoc{},
	}
	for _, e := range account.Events {
		doc.Events = append(doc.Events, toEventDoc(e))
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return core.ErrAccountExists
		}
		return fmt.Errorf("insert account %s: %w", account.Email, err)
	}
	return nil
}

func (r *Repository) AppendEvent(ctx context.Context, email string, e core.Event) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$push": bson.M{"events": toEventDoc(e)}},
	)
	if err != nil {
		return fmt.Errorf("append event for %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) RemoveEvent(ctx context.Context, email, eventID string) error {
	// Matching zero events is fine: delete is idempotent.
	_, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$pull": bson.M{"events": bson.M{"_id": eventID}}},
	)
	if err != nil {
		return fmt.Errorf("remove event %s for %s: %w", eventID, email, err)
	}
	return nil
}

func (r *Repository) UpdateEvent(ctx context.Context, email string, e core.Event) error {
	// Positional update; an unknown id matches zero documents and that is
	// part of the contract, so MatchedCount is not checked.
	_, err := r.users.UpdateOne(ctx,
		bson.M{"email": email, "events._id": e.ID},
		bson.M{"$set": bson.M{
			"events.$.amount_cents": e.Amount.Cents,
			"events.$.category":     e.Category,
			"events.$.date":         e.Date,
			"events.$.memo":         e.Memo,
		}},
	)
	if err != nil {
		return fmt.Errorf("update event %s for %s: %w", e.ID, email, err)
	}
	return nil
}

func (r *Repository) UpdateProfile(ctx context.Context, email, firstname, lastname string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"firstname": firstname, "lastname": lastname}},
	)
	if err != nil {
		return fmt.Errorf("update profile for %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, email string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("delete account %s: %w", email, err)
	}
	if res.DeletedCount == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}
