package testutil

import (
	"context"
	"time"

	"github.com/autom8ter/grizzly"
	_ "github.com/autom8ter/grizzly/kv/badger"
	"github.com/brianvoe/gofakeit/v6"

	_ "embed"
)

var (
	//go:embed testdata/user.yaml
	UserConfig []byte
	//go:embed testdata/task.yaml
	TaskConfig []byte

	AllConfigs = [][]byte{UserConfig, TaskConfig}
)

func NewUserDoc() *grizzly.Document {
	doc, err := grizzly.NewDocumentFrom(map[string]interface{}{
		"_id":  gofakeit.UUID(),
		"name": gofakeit.Name(),
		"contact": map[string]interface{}{
			"email": gofakeit.Email(),
		},
		"account_id":      gofakeit.IntRange(0, 100),
		"language":        gofakeit.Language(),
		"birthday_month":  gofakeit.Month(),
		"favorite_number": gofakeit.Second(),
		"gender":          gofakeit.Gender(),
		"age":             gofakeit.IntRange(0, 100),
		"timestamp":       gofakeit.DateRange(time.Now().Truncate(7200*time.Hour), time.Now()),
		"annotations":     gofakeit.Map(),
	})
	if err != nil {
		panic(err)
	}
	return doc
}

func NewTaskDoc(usrID string) *grizzly.Document {
	doc, err := grizzly.NewDocumentFrom(map[string]interface{}{
		"_id":     gofakeit.UUID(),
		"user":    usrID,
		"content": gofakeit.LoremIpsumSentence(5),
	})
	if err != nil {
		panic(err)
	}
	return doc
}

// TestDB runs fn against an in-memory database configured with the given
// collection configs (all fixture configs when none are given).
func TestDB(fn func(ctx context.Context, db *grizzly.DB), configs ...[]byte) error {
	if len(configs) == 0 {
		configs = AllConfigs
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	db, err := grizzly.Open(ctx, "badger", map[string]any{
		"storage_path": "",
	})
	if err != nil {
		return err
	}
	defer db.Close(ctx)
	for _, config := range configs {
		if err := db.ConfigureCollection(ctx, config); err != nil {
			return err
		}
	}
	fn(ctx, db)
	return nil
}
