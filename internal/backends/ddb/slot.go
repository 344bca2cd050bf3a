package ddb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Slot stores the collection payload as one item (PK=SLOT#<name>, SK=PAYLOAD).
type Slot struct {
	table string
	name  string
	cli   *dynamodb.Client
}

type slotItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Payload   []byte `dynamodbav:"payload"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

// NewSlot creates the table when it does not exist yet.
func NewSlot(ctx context.Context, table, name string, cli *dynamodb.Client) (*Slot, error) {
	if err := createTableIfNotExists(ctx, cli, table); err != nil {
		return nil, err
	}
	return &Slot{table: table, name: name, cli: cli}, nil
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	out, err := s.cli.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            s.key(),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var item slotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.Payload, nil
}

func (s *Slot) Write(ctx context.Context, payload []byte) error {
	item, err := attributevalue.MarshalMap(slotItem{
		PK:        pkSlot(s.name),
		SK:        skPayload(),
		Payload:   payload,
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = s.cli.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	return err
}

// Clear deletes the slot item. Used in tests only.
func (s *Slot) Clear(ctx context.Context) error {
	_, err := s.cli.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.table,
		Key:       s.key(),
	})
	return err
}

func (s *Slot) key() map[string]ddbTypes.AttributeValue {
	return map[string]ddbTypes.AttributeValue{
		"PK": &ddbTypes.AttributeValueMemberS{Value: pkSlot(s.name)},
		"SK": &ddbTypes.AttributeValueMemberS{Value: skPayload()},
	}
}
