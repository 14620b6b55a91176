// Package store - store/dynamo.go
// DynamoDB-backed implementation of the Store contract. Each collection maps
// to one table named <prefix><collection> with a string partition key "id".
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"go-footy-trivia/logger"
	"go-footy-trivia/models"
)

// defaultCallTimeout bounds every remote call so a hung network call cannot
// leave a row's state machine stuck forever.
const defaultCallTimeout = 10 * time.Second

// DynamoStore talks to DynamoDB. Construct with NewDynamoStore.
type DynamoStore struct {
	db          dynamodbiface.DynamoDBAPI
	tablePrefix string
	callTimeout time.Duration
}

// NewDynamoStore creates a store using the ambient AWS session (region and
// credentials from the environment, same as the metrics client).
func NewDynamoStore(tablePrefix string) *DynamoStore {
	return &DynamoStore{
		db:          dynamodb.New(session.Must(session.NewSession())),
		tablePrefix: tablePrefix,
		callTimeout: defaultCallTimeout,
	}
}

// NewDynamoStoreWithClient injects a client; used by tests.
func NewDynamoStoreWithClient(db dynamodbiface.DynamoDBAPI, tablePrefix string) *DynamoStore {
	return &DynamoStore{db: db, tablePrefix: tablePrefix, callTimeout: defaultCallTimeout}
}

func (s *DynamoStore) table(collection string) *string {
	return aws.String(s.tablePrefix + collection)
}

// withTimeout applies the per-call deadline unless the caller already set one.
func (s *DynamoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

// FetchAll scans the collection's table and returns every document.
func (s *DynamoStore) FetchAll(ctx context.Context, collection string) ([]models.Doc, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var docs []models.Doc
	input := &dynamodb.ScanInput{TableName: s.table(collection)}
	err := s.db.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, last bool) bool {
		for _, item := range page.Items {
			var doc models.Doc
			if uerr := dynamodbattribute.UnmarshalMap(item, &doc); uerr != nil {
				logger.Warn.Printf("[FetchAll] skipping undecodable %s item: %v", collection, uerr)
				continue
			}
			docs = append(docs, doc)
		}
		return true
	})
	if err != nil {
		return nil, classify("FetchAll", collection, err)
	}
	return docs, nil
}

// Get reads a single document by id.
func (s *DynamoStore) Get(ctx context.Context, collection, id string) (models.Doc, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: s.table(collection),
		Key:       keyAttr(id),
	})
	if err != nil {
		return nil, classify("Get", collection, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	var doc models.Doc
	if err := dynamodbattribute.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, ErrRemoteUnavailable)
	}
	return doc, nil
}

// Upsert merge-writes the given fields onto the record, creating it when
// absent. Only the named fields are touched: the update expression SETs each
// payload field individually, so remote fields absent from the payload are
// preserved untouched.
func (s *DynamoStore) Upsert(ctx context.Context, collection, id string, fields models.Doc) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	names := make(map[string]*string)
	values := make(map[string]*dynamodb.AttributeValue)
	var sets []string

	// deterministic expression order keeps logs and tests readable
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "id" { // the partition key is never part of the SET clause
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		av, err := dynamodbattribute.Marshal(fields[k])
		if err != nil {
			return fmt.Errorf("field %q: %w", k, ErrValidationRejected)
		}
		nk := fmt.Sprintf("#f%d", i)
		vk := fmt.Sprintf(":v%d", i)
		names[nk] = aws.String(k)
		values[vk] = av
		sets = append(sets, nk+" = "+vk)
	}
	if len(sets) == 0 {
		return nil // nothing to write
	}

	_, err := s.db.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:                 s.table(collection),
		Key:                       keyAttr(id),
		UpdateExpression:          aws.String("SET " + join(sets)),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return classify("Upsert", collection, err)
	}
	return nil
}

// Remove deletes the record. Deleting an absent record is not an error, same
// as the remote store's own semantics.
func (s *DynamoStore) Remove(ctx context.Context, collection, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: s.table(collection),
		Key:       keyAttr(id),
	})
	if err != nil {
		return classify("Remove", collection, err)
	}
	return nil
}

// ----------------------- helpers -----------------------

func keyAttr(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"id": {S: aws.String(id)},
	}
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// classify maps transport errors onto the store's typed failures.
func classify(op, collection string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Error.Printf("[%s] %s: deadline exceeded", op, collection)
		return fmt.Errorf("%s %s: %w", op, collection, ErrTimedOut)
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case dynamodb.ErrCodeConditionalCheckFailedException, "ValidationException":
			logger.Error.Printf("[%s] %s rejected: %v", op, collection, aerr)
			return fmt.Errorf("%s %s: %w", op, collection, ErrValidationRejected)
		case request.CanceledErrorCode:
			logger.Error.Printf("[%s] %s: request cancelled", op, collection)
			return fmt.Errorf("%s %s: %w", op, collection, ErrTimedOut)
		}
	}
	logger.Error.Printf("[%s] %s failed: %v", op, collection, err)
	return fmt.Errorf("%s %s: %w", op, collection, ErrRemoteUnavailable)
}
