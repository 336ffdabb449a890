package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/petnfc-api/internal/domain"
)

// PetRepo reads pet tags and maintains their scan counters.
type PetRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPetRepo(client *dynamodb.Client, tableName string) *PetRepo {
	return &PetRepo{client: client, tableName: tableName}
}

func (r *PetRepo) Get(ctx context.Context, petID string) (*domain.Pet, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldPetID, petID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pet not found: %w", domain.ErrNotFound)
	}
	var p domain.Pet
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementScanCount atomically adds one to scan_count.
func (r *PetRepo) IncrementScanCount(ctx context.Context, petID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldPetID, petID),
		UpdateExpression:    aws.String("ADD #c :one SET #u = :now"),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#c":  fieldScanCount,
			"#u":  fieldUpdatedAt,
			"#id": fieldPetID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("pet not found: %w", domain.ErrNotFound)
	}
	return err
}
