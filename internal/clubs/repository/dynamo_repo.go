package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
	"github.com/gymsuite/gymsuite-backend/internal/storage/dynamo"
)

// counter item in the counters table that backs NextID
const recordCounterName = "club_records"

type DynamoTables struct {
	Records        string
	Counters       string
	EmailIndex     string
	EmailClubIndex string
}

// DynamoRepository keeps records in a table keyed by numeric ID, with a
// User_Email index and a (User_Email, Club) index.
type DynamoRepository struct {
	api    dynamo.API
	tables DynamoTables
}

func NewDynamoRepository(api dynamo.API, tables DynamoTables) *DynamoRepository {
	return &DynamoRepository{api: api, tables: tables}
}

func idKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"ID": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

// NextID increments the counter item atomically with ADD.
func (r *DynamoRepository) NextID(ctx context.Context) (int64, error) {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Add(expression.Name("value"), expression.Value(1))).
		Build()
	if err != nil {
		return 0, err
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tables.Counters),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: recordCounterName},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate record id: %w", err)
	}

	var counter struct {
		Value int64 `dynamodbav:"value"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, fmt.Errorf("failed to read record counter: %w", err)
	}
	if counter.Value == 0 {
		return 0, fmt.Errorf("record counter returned no value")
	}
	return counter.Value, nil
}

func (r *DynamoRepository) Create(ctx context.Context, rec *domain.ClubRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("ID"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tables.Records),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if dynamo.IsConditionFailed(err) {
		return ErrRecordExists
	}
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id int64) (*domain.ClubRecord, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Records),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	var rec domain.ClubRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

func (r *DynamoRepository) ListByUser(ctx context.Context, email string) ([]domain.ClubRecord, error) {
	key := expression.Key("User_Email").Equal(expression.Value(email))
	expr, err := expression.NewBuilder().WithKeyCondition(key).Build()
	if err != nil {
		return nil, err
	}

	return r.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tables.Records),
		IndexName:                 aws.String(r.tables.EmailIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (r *DynamoRepository) ListByUserAndClub(ctx context.Context, email, club string, period *domain.Period) ([]domain.ClubRecord, error) {
	key := expression.Key("User_Email").Equal(expression.Value(email)).
		And(expression.Key("Club").Equal(expression.Value(club)))
	builder := expression.NewBuilder().WithKeyCondition(key)
	if period != nil {
		builder = builder.WithFilter(expression.Name("Date_Time").Contains(period.MonthYear()))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return r.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tables.Records),
		IndexName:                 aws.String(r.tables.EmailClubIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (r *DynamoRepository) SetFields(ctx context.Context, id int64, group domain.FieldGroup, values [3]string) (*domain.ClubRecord, error) {
	if !group.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFieldGroup, string(group))
	}
	attrs := group.Attributes()

	upd := expression.
		Set(expression.Name(attrs[0]), expression.Value(values[0])).
		Set(expression.Name(attrs[1]), expression.Value(values[1])).
		Set(expression.Name(attrs[2]), expression.Value(values[2]))
	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.AttributeExists(expression.Name("ID"))).
		Build()
	if err != nil {
		return nil, err
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tables.Records),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if dynamo.IsConditionFailed(err) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	var rec domain.ClubRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

func (r *DynamoRepository) Ping(ctx context.Context) error {
	return dynamo.PingTable(ctx, r.api, r.tables.Records)
}

func (r *DynamoRepository) query(ctx context.Context, in *dynamodb.QueryInput) ([]domain.ClubRecord, error) {
	var out []domain.ClubRecord

	paginator := dynamodb.NewQueryPaginator(r.api, in)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query records: %w", err)
		}

		var recs []domain.ClubRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		out = append(out, recs...)
	}
	return out, nil
}
