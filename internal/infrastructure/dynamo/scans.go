package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/petnfc-api/internal/domain"
)

// ScanRepo stores the scan history.
type ScanRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewScanRepo(client *dynamodb.Client, tableName string) *ScanRepo {
	return &ScanRepo{client: client, tableName: tableName}
}

func (r *ScanRepo) Put(ctx context.Context, rec *domain.ScanRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal scan: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ScanPage returns a page of scan records.
// cursor is a base64-encoded scan_id used as ExclusiveStartKey; the returned
// cursor is empty when there are no more pages.
func (r *ScanRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.ScanRecord, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		scanID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey(fieldScanID, scanID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	records := []domain.ScanRecord{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey[fieldScanID].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return records, nextCursor, nil
}
