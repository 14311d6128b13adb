package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"todo-api/models"
)

// DynamoAPI is the subset of the DynamoDB client the table uses.
type DynamoAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoTable stores todos in a DynamoDB table keyed by the string attribute
// "id".
type DynamoTable struct {
	client    DynamoAPI
	tableName string
}

// NewDynamoTable wraps an existing client.
func NewDynamoTable(client DynamoAPI, tableName string) (*DynamoTable, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is required")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &DynamoTable{client: client, tableName: tableName}, nil
}

// OpenDynamo builds a client from the default AWS configuration chain
// (AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, shared profiles).
// A non-empty endpoint points the client at DynamoDB Local or another
// compatible service.
func OpenDynamo(ctx context.Context, tableName, region, endpoint string) (*DynamoTable, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewDynamoTable(client, tableName)
}

// Scan reads every page of the table.
func (t *DynamoTable) Scan(ctx context.Context) ([]models.Task, error) {
	paginator := dynamodb.NewScanPaginator(t.client, &dynamodb.ScanInput{
		TableName: aws.String(t.tableName),
	})
	tasks := []models.Task{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.tableName, err)
		}
		var batch []models.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode scan items: %w", err)
		}
		tasks = append(tasks, batch...)
	}
	return tasks, nil
}

// PutItem writes the whole task unconditionally.
func (t *DynamoTable) PutItem(ctx context.Context, task models.Task) error {
	if err := requireKey(task.ID); err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return fmt.Errorf("encode todo %s: %w", task.ID, err)
	}
	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put todo %s: %w", task.ID, err)
	}
	return nil
}

// UpdateItem sets title and completed on the item keyed by id. DynamoDB
// creates the item when the key is unknown.
func (t *DynamoTable) UpdateItem(ctx context.Context, id, title string, completed bool) error {
	if err := requireKey(id); err != nil {
		return err
	}
	update := expression.Set(expression.Name("title"), expression.Value(title)).
		Set(expression.Name("completed"), expression.Value(completed))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("build update expression: %w", err)
	}
	_, err = t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.tableName),
		Key:                       itemKey(id),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("update todo %s: %w", id, err)
	}
	return nil
}

// DeleteItem removes the item keyed by id.
func (t *DynamoTable) DeleteItem(ctx context.Context, id string) error {
	if err := requireKey(id); err != nil {
		return err
	}
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.tableName),
		Key:       itemKey(id),
	})
	if err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (t *DynamoTable) Close() error {
	return nil
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
