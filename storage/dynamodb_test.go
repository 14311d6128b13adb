package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"todo-api/models"
)

type fakeDynamo struct {
	pages   []*dynamodb.ScanOutput
	scanIn  []*dynamodb.ScanInput
	putIn   *dynamodb.PutItemInput
	updIn   *dynamodb.UpdateItemInput
	delIn   *dynamodb.DeleteItemInput
	callErr error
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanIn = append(f.scanIn, in)
	if f.callErr != nil {
		return nil, f.callErr
	}
	if len(f.pages) == 0 {
		return &dynamodb.ScanOutput{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putIn = in
	return &dynamodb.PutItemOutput{}, f.callErr
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updIn = in
	return &dynamodb.UpdateItemOutput{}, f.callErr
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.delIn = in
	return &dynamodb.DeleteItemOutput{}, f.callErr
}

func todoItem(id, title string, completed bool) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":        &types.AttributeValueMemberS{Value: id},
		"title":     &types.AttributeValueMemberS{Value: title},
		"completed": &types.AttributeValueMemberBOOL{Value: completed},
	}
}

func newTestDynamo(t *testing.T, fake *fakeDynamo) *DynamoTable {
	t.Helper()
	table, err := NewDynamoTable(fake, "todos")
	if err != nil {
		t.Fatalf("new dynamo table: %v", err)
	}
	return table
}

func TestNewDynamoTableRequiresTableName(t *testing.T) {
	t.Parallel()

	if _, err := NewDynamoTable(&fakeDynamo{}, ""); err == nil {
		t.Fatal("expected table name error")
	}
	if _, err := NewDynamoTable(nil, "todos"); err == nil {
		t.Fatal("expected client error")
	}
}

func TestDynamoScanFollowsPages(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamo{pages: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{todoItem("1", "Buy milk", false)},
			LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "1"}},
		},
		{
			Items: []map[string]types.AttributeValue{todoItem("2", "Walk dog", true)},
		},
	}}
	table := newTestDynamo(t, fake)

	tasks, err := table.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []models.Task{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "Walk dog", Completed: true},
	}
	if len(tasks) != len(want) {
		t.Fatalf("tasks = %+v, want %+v", tasks, want)
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Fatalf("task[%d] = %+v, want %+v", i, tasks[i], want[i])
		}
	}
	if len(fake.scanIn) != 2 {
		t.Fatalf("scan calls = %d, want 2", len(fake.scanIn))
	}
	if aws.ToString(fake.scanIn[0].TableName) != "todos" {
		t.Fatalf("table name = %q, want todos", aws.ToString(fake.scanIn[0].TableName))
	}
	if fake.scanIn[1].ExclusiveStartKey == nil {
		t.Fatal("expected second page to start after the first page's key")
	}
}

func TestDynamoScanEmptyTable(t *testing.T) {
	t.Parallel()

	tasks, err := newTestDynamo(t, &fakeDynamo{}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("tasks = %#v, want empty non-nil slice", tasks)
	}
}

func TestDynamoScanError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := newTestDynamo(t, &fakeDynamo{callErr: boom}).Scan(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("scan err = %v, want wrapped %v", err, boom)
	}
}

func TestDynamoPutItemMarshalsTask(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamo{}
	table := newTestDynamo(t, fake)
	if err := table.PutItem(context.Background(), models.Task{ID: "7", Title: "Buy milk"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	item := fake.putIn.Item
	if id, ok := item["id"].(*types.AttributeValueMemberS); !ok || id.Value != "7" {
		t.Fatalf("id attribute = %#v", item["id"])
	}
	if title, ok := item["title"].(*types.AttributeValueMemberS); !ok || title.Value != "Buy milk" {
		t.Fatalf("title attribute = %#v", item["title"])
	}
	if completed, ok := item["completed"].(*types.AttributeValueMemberBOOL); !ok || completed.Value {
		t.Fatalf("completed attribute = %#v", item["completed"])
	}
}

func TestDynamoUpdateItemSetsBothAttributes(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamo{}
	table := newTestDynamo(t, fake)
	if err := table.UpdateItem(context.Background(), "7", "Buy milk", true); err != nil {
		t.Fatalf("update: %v", err)
	}
	in := fake.updIn
	if key, ok := in.Key["id"].(*types.AttributeValueMemberS); !ok || key.Value != "7" {
		t.Fatalf("key = %#v", in.Key)
	}
	if in.ConditionExpression != nil {
		t.Fatalf("condition = %q, want unconditional update", aws.ToString(in.ConditionExpression))
	}
	names := map[string]bool{}
	for _, name := range in.ExpressionAttributeNames {
		names[name] = true
	}
	if !names["title"] || !names["completed"] {
		t.Fatalf("attribute names = %v, want title and completed", in.ExpressionAttributeNames)
	}
	if len(in.ExpressionAttributeValues) != 2 {
		t.Fatalf("attribute values = %v, want 2", in.ExpressionAttributeValues)
	}
}

func TestDynamoDeleteItemKeysByID(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamo{}
	if err := newTestDynamo(t, fake).DeleteItem(context.Background(), "7"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if key, ok := fake.delIn.Key["id"].(*types.AttributeValueMemberS); !ok || key.Value != "7" {
		t.Fatalf("key = %#v", fake.delIn.Key)
	}
}

func TestDynamoRejectsMissingKeyWithoutCalling(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamo{}
	table := newTestDynamo(t, fake)
	if err := table.DeleteItem(context.Background(), ""); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("delete err = %v, want %v", err, ErrMissingKey)
	}
	if fake.delIn != nil {
		t.Fatal("expected no DeleteItem call")
	}
}
