package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	"github.com/gymsuite/gymsuite-backend/internal/storage/dynamo"
)

// DynamoRepository stores accounts in a table whose partition key is email.
type DynamoRepository struct {
	api   dynamo.API
	table string
}

func NewDynamoRepository(api dynamo.API, table string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table}
}

func emailKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
}

func (r *DynamoRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            emailKey(email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrUserNotFound
	}

	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

func (r *DynamoRepository) Create(ctx context.Context, user *domain.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("email"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if dynamo.IsConditionFailed(err) {
		return domain.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *DynamoRepository) SetResetToken(ctx context.Context, email, token string, expiryMillis int64) error {
	upd := expression.
		Set(expression.Name("resetToken"), expression.Value(token)).
		Set(expression.Name("resetTokenExpiry"), expression.Value(expiryMillis))

	_, err := r.update(ctx, email, upd, expression.AttributeExists(expression.Name("email")), types.ReturnValueNone)
	if dynamo.IsConditionFailed(err) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *DynamoRepository) CompletePasswordReset(ctx context.Context, email, token, passwordHash string, nowMillis int64) error {
	upd := expression.
		Set(expression.Name("password"), expression.Value(passwordHash)).
		Remove(expression.Name("resetToken")).
		Remove(expression.Name("resetTokenExpiry"))
	cond := expression.Name("resetToken").Equal(expression.Value(token)).
		And(expression.Name("resetTokenExpiry").GreaterThanEqual(expression.Value(nowMillis)))

	_, err := r.update(ctx, email, upd, cond, types.ReturnValueNone)
	if dynamo.IsConditionFailed(err) {
		return domain.ErrInvalidResetToken
	}
	return err
}

func (r *DynamoRepository) UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return r.GetByEmail(ctx, email)
	}

	var upd expression.UpdateBuilder
	set := func(attr string, v *string) {
		if v != nil {
			upd = upd.Set(expression.Name(attr), expression.Value(*v))
		}
	}
	set("Clubwise_URL", update.ClubwiseURL)
	set("Business_name", update.BusinessName)
	set("Logo", update.Logo)
	set("First_Name", update.FirstName)
	set("Last_Name", update.LastName)
	set("phone", update.Phone)
	set("password", update.PasswordHash)

	return r.updateReturning(ctx, email, upd)
}

func (r *DynamoRepository) UpdateCRMCredentials(ctx context.Context, email string, creds domain.CRMCredentials) (*domain.User, error) {
	upd := expression.
		Set(expression.Name("CRM_API_Key"), expression.Value(creds.APIKey)).
		Set(expression.Name("CRM_Username"), expression.Value(creds.Username)).
		Set(expression.Name("CRM_Password"), expression.Value(creds.PasswordHash))

	return r.updateReturning(ctx, email, upd)
}

// ClearExpiredResetTokens scans for open reset windows that ended before
// nowMillis and removes them item by item. Each removal is conditional so a
// window reopened during the scan survives.
func (r *DynamoRepository) ClearExpiredResetTokens(ctx context.Context, nowMillis int64) (int, error) {
	expired := expression.Name("resetTokenExpiry").LessThan(expression.Value(nowMillis))
	expr, err := expression.NewBuilder().
		WithFilter(expired).
		WithProjection(expression.NamesList(expression.Name("email"))).
		Build()
	if err != nil {
		return 0, err
	}

	paginator := dynamodb.NewScanPaginator(r.api, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	cleared := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return cleared, fmt.Errorf("failed to scan reset tokens: %w", err)
		}

		for _, item := range page.Items {
			var key struct {
				Email string `dynamodbav:"email"`
			}
			if err := attributevalue.UnmarshalMap(item, &key); err != nil {
				return cleared, fmt.Errorf("failed to unmarshal user key: %w", err)
			}

			upd := expression.Remove(expression.Name("resetToken")).Remove(expression.Name("resetTokenExpiry"))
			_, err := r.update(ctx, key.Email, upd, expired, types.ReturnValueNone)
			if dynamo.IsConditionFailed(err) {
				continue
			}
			if err != nil {
				return cleared, err
			}
			cleared++
		}
	}
	return cleared, nil
}

func (r *DynamoRepository) Ping(ctx context.Context) error {
	return dynamo.PingTable(ctx, r.api, r.table)
}

func (r *DynamoRepository) updateReturning(ctx context.Context, email string, upd expression.UpdateBuilder) (*domain.User, error) {
	out, err := r.update(ctx, email, upd, expression.AttributeExists(expression.Name("email")), types.ReturnValueAllNew)
	if dynamo.IsConditionFailed(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

func (r *DynamoRepository) update(ctx context.Context, email string, upd expression.UpdateBuilder, cond expression.ConditionBuilder, ret types.ReturnValue) (*dynamodb.UpdateItemOutput, error) {
	expr, err := expression.NewBuilder().WithUpdate(upd).WithCondition(cond).Build()
	if err != nil {
		return nil, err
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       emailKey(email),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              ret,
	})
	if err != nil && !dynamo.IsConditionFailed(err) {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return out, err
}
