package repository

import (
    "context"
    "errors"
    "sort"
    "strings"

    "github.com/aws/aws-sdk-go-v2/aws"
    "github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
    "github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
    "github.com/aws/aws-sdk-go-v2/service/dynamodb"
    "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

const orderDayFormat = "2006-01-02"

type DynamoOrderStore struct {
    client    *dynamodb.Client
    tableName string
}

func NewDynamoOrderStore(client *dynamodb.Client, tableName string) *DynamoOrderStore {
    return &DynamoOrderStore{
        client:    client,
        tableName: tableName,
    }
}

// orderRecord shadows the customer name in lowercase and the order date
// at day granularity so both list filters are plain scan conditions.
type orderRecord struct {
    domain.Order
    CustomerLC string `dynamodbav:"customer_lc"`
    OrderDay   string `dynamodbav:"order_day"`
}

func newOrderRecord(order *domain.Order) orderRecord {
    return orderRecord{
        Order:      *order,
        CustomerLC: strings.ToLower(order.Customer),
        OrderDay:   order.OrderDate.UTC().Format(orderDayFormat),
    }
}

func (s *DynamoOrderStore) Create(ctx context.Context, order *domain.Order) error {
    av, err := attributevalue.MarshalMap(newOrderRecord(order))
    if err != nil {
        return domain.WrapError(domain.KindStorageFailure, "failed to marshal order", err)
    }

    _, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
        TableName:           aws.String(s.tableName),
        Item:                av,
        ConditionExpression: aws.String("attribute_not_exists(order_id)"),
    })
    if err != nil {
        var ccf *types.ConditionalCheckFailedException
        if errors.As(err, &ccf) {
            return domain.Errorf(domain.KindDuplicateID, "order %s already exists", order.OrderID)
        }
        return domain.WrapError(domain.KindStorageFailure, "failed to put order", err)
    }

    return nil
}

func (s *DynamoOrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
    if err := domain.ValidateOrderID(id); err != nil {
        return nil, err
    }

    result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
        TableName: aws.String(s.tableName),
        Key: map[string]types.AttributeValue{
            "order_id": &types.AttributeValueMemberS{Value: id},
        },
    })
    if err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to get order", err)
    }

    if result.Item == nil {
        return nil, domain.Errorf(domain.KindNotFound, "order %s not found", id)
    }

    var record orderRecord
    if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to unmarshal order", err)
    }

    order := record.Order
    return &order, nil
}

func (s *DynamoOrderStore) Replace(ctx context.Context, id string, order *domain.Order) error {
    if err := domain.ValidateOrderID(id); err != nil {
        return err
    }

    av, err := attributevalue.MarshalMap(newOrderRecord(order))
    if err != nil {
        return domain.WrapError(domain.KindStorageFailure, "failed to marshal order", err)
    }

    _, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
        TableName:           aws.String(s.tableName),
        Item:                av,
        ConditionExpression: aws.String("attribute_exists(order_id)"),
    })
    if err != nil {
        var ccf *types.ConditionalCheckFailedException
        if errors.As(err, &ccf) {
            return domain.Errorf(domain.KindNotFound, "order %s not found", id)
        }
        return domain.WrapError(domain.KindStorageFailure, "failed to replace order", err)
    }

    return nil
}

func (s *DynamoOrderStore) Delete(ctx context.Context, id string) error {
    if err := domain.ValidateOrderID(id); err != nil {
        return err
    }

    _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
        TableName: aws.String(s.tableName),
        Key: map[string]types.AttributeValue{
            "order_id": &types.AttributeValueMemberS{Value: id},
        },
        ConditionExpression: aws.String("attribute_exists(order_id)"),
    })
    if err != nil {
        var ccf *types.ConditionalCheckFailedException
        if errors.As(err, &ccf) {
            return domain.Errorf(domain.KindNotFound, "order %s not found", id)
        }
        return domain.WrapError(domain.KindStorageFailure, "failed to delete order", err)
    }

    return nil
}

func (s *DynamoOrderStore) List(ctx context.Context, filter domain.OrderFilter, page, pageSize int) (*domain.OrderPage, error) {
    if err := validatePageArgs(page, pageSize); err != nil {
        return nil, err
    }

    input := &dynamodb.ScanInput{
        TableName: aws.String(s.tableName),
    }

    if cond, ok := buildOrderFilter(filter); ok {
        expr, err := expression.NewBuilder().WithFilter(cond).Build()
        if err != nil {
            return nil, domain.WrapError(domain.KindStorageFailure, "failed to build order filter", err)
        }
        input.FilterExpression = expr.Filter()
        input.ExpressionAttributeNames = expr.Names()
        input.ExpressionAttributeValues = expr.Values()
    }

    var orders []*domain.Order
    paginator := dynamodb.NewScanPaginator(s.client, input)
    for paginator.HasMorePages() {
        out, err := paginator.NextPage(ctx)
        if err != nil {
            return nil, domain.WrapError(domain.KindStorageFailure, "failed to scan orders", err)
        }
        var batch []orderRecord
        if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
            return nil, domain.WrapError(domain.KindStorageFailure, "failed to unmarshal orders", err)
        }
        for i := range batch {
            order := batch[i].Order
            orders = append(orders, &order)
        }
    }

    sortOrdersNewestFirst(orders)

    total := len(orders)
    start, end, totalPages := pageBounds(total, page, pageSize)

    return &domain.OrderPage{
        Orders:     orders[start:end],
        Total:      total,
        Page:       page,
        PageSize:   pageSize,
        TotalPages: totalPages,
    }, nil
}

func buildOrderFilter(filter domain.OrderFilter) (expression.ConditionBuilder, bool) {
    var conds []expression.ConditionBuilder

    if filter.Customer != "" {
        conds = append(conds, expression.Contains(
            expression.Name("customer_lc"),
            strings.ToLower(strings.TrimSpace(filter.Customer)),
        ))
    }
    if filter.Date != nil {
        conds = append(conds, expression.Name("order_day").Equal(
            expression.Value(filter.Date.UTC().Format(orderDayFormat)),
        ))
    }

    if len(conds) == 0 {
        return expression.ConditionBuilder{}, false
    }

    cond := conds[0]
    for _, c := range conds[1:] {
        cond = cond.And(c)
    }
    return cond, true
}

func sortOrdersNewestFirst(orders []*domain.Order) {
    sort.SliceStable(orders, func(i, j int) bool {
        if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
            return orders[i].OrderID < orders[j].OrderID
        }
        return orders[i].CreatedAt.After(orders[j].CreatedAt)
    })
}
