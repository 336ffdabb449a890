package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/petnfc-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Put creates a user. An existing user_id is a conflict.
func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldUserID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("user %s exists: %w", u.UserID, domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldUserID, userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexUserEmail),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldEmail},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveOTPState writes the OTP attributes if otp_version still equals
// prevVersion. Nil fields are removed from the item.
func (r *UserRepo) SaveOTPState(ctx context.Context, userID string, prevVersion int64, next domain.OTPState) error {
	ue, err := buildUpdateExpr(otpUpdates(next))
	if err != nil {
		return err
	}
	ue.Names["#uid"] = fieldUserID
	ue.Names["#ver"] = fieldOTPVersion
	ue.withValue(":prev", &types.AttributeValueMemberN{Value: fmt.Sprint(prevVersion)})

	cond := "attribute_exists(#uid) AND #ver = :prev"
	if prevVersion == 0 {
		cond = "attribute_exists(#uid) AND (attribute_not_exists(#ver) OR #ver = :prev)"
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, userID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("otp state of %s changed concurrently: %w", userID, domain.ErrConflict)
	}
	return err
}

func otpUpdates(st domain.OTPState) map[string]interface{} {
	updates := map[string]interface{}{
		fieldOTPSecret:    nil,
		fieldOTP:          nil,
		fieldOTPCreatedAt: nil,
		fieldOTPVersion:   st.OTPVersion,
		fieldUpdatedAt:    time.Now().UTC(),
	}
	if st.OTPSecret != nil {
		updates[fieldOTPSecret] = *st.OTPSecret
	}
	if st.OTP != nil {
		updates[fieldOTP] = *st.OTP
	}
	if st.OTPCreatedAt != nil {
		updates[fieldOTPCreatedAt] = *st.OTPCreatedAt
	}
	return updates
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
