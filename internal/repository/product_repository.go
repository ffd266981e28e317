package repository

import (
    "context"
    "errors"
    "sort"
    "strings"
    "time"

    "github.com/aws/aws-sdk-go-v2/aws"
    "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
    "github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
    "github.com/aws/aws-sdk-go-v2/service/dynamodb"
    "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
    pkgconfig "github.com/cloud-wave-best-zizon/catalog-service/pkg/config"
)

// productIDIndex is the GSI that resolves internal ids to records; the
// table itself is keyed by the normalized product code so stock
// adjustments are a single UpdateItem.
const productIDIndex = "id-index"

type DynamoProductStore struct {
    client    *dynamodb.Client
    tableName string
}

func NewDynamoDBClient(cfg *pkgconfig.Config) (*dynamodb.Client, error) {
    awsCfg, err := config.LoadDefaultConfig(context.TODO(),
        config.WithRegion(cfg.AWSRegion),
    )
    if err != nil {
        return nil, err
    }

    return dynamodb.NewFromConfig(awsCfg), nil
}

func NewDynamoProductStore(client *dynamodb.Client, tableName string) *DynamoProductStore {
    return &DynamoProductStore{
        client:    client,
        tableName: tableName,
    }
}

func (s *DynamoProductStore) Create(ctx context.Context, product *domain.Product) error {
    av, err := attributevalue.MarshalMap(product)
    if err != nil {
        return domain.WrapError(domain.KindStorageFailure, "failed to marshal product", err)
    }

    _, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
        TableName:           aws.String(s.tableName),
        Item:                av,
        ConditionExpression: aws.String("attribute_not_exists(code)"),
    })
    if err != nil {
        var ccf *types.ConditionalCheckFailedException
        if errors.As(err, &ccf) {
            return domain.Errorf(domain.KindDuplicateCode, "product code %s already exists", product.Code)
        }
        return domain.WrapError(domain.KindStorageFailure, "failed to put product", err)
    }

    return nil
}

func (s *DynamoProductStore) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
    code = domain.NormalizeCode(code)

    result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
        TableName: aws.String(s.tableName),
        Key: map[string]types.AttributeValue{
            "code": &types.AttributeValueMemberS{Value: code},
        },
    })
    if err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to get product", err)
    }

    if result.Item == nil {
        return nil, domain.Errorf(domain.KindNotFound, "product with code %s not found", code)
    }

    var product domain.Product
    if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to unmarshal product", err)
    }

    return &product, nil
}

func (s *DynamoProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
    if err := domain.ValidateProductID(id); err != nil {
        return nil, err
    }

    keyCond := expression.Key("id").Equal(expression.Value(id))
    expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
    if err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to build id query", err)
    }

    result, err := s.client.Query(ctx, &dynamodb.QueryInput{
        TableName:                 aws.String(s.tableName),
        IndexName:                 aws.String(productIDIndex),
        KeyConditionExpression:    expr.KeyCondition(),
        ExpressionAttributeNames:  expr.Names(),
        ExpressionAttributeValues: expr.Values(),
        Limit:                     aws.Int32(1),
    })
    if err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to query product by id", err)
    }

    if len(result.Items) == 0 {
        return nil, domain.Errorf(domain.KindNotFound, "product with id %s not found", id)
    }

    var product domain.Product
    if err := attributevalue.UnmarshalMap(result.Items[0], &product); err != nil {
        return nil, domain.WrapError(domain.KindStorageFailure, "failed to unmarshal product", err)
    }

    return &product, nil
}

func (s *DynamoProductStore) Update(ctx context.Context, prevCode string, product *domain.Product) error {
    av, err := attributevalue.MarshalMap(product)
    if err != nil {
        return domain.WrapError(domain.KindStorageFailure, "failed to marshal product", err)
    }

    if prevCode == product.Code {
        _, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
            TableName:           aws.String(s.tableName),
            Item:                av,
            ConditionExpression: aws.String("attribute_exists(code)"),
        })
        if err != nil {
            var ccf *types.ConditionalCheckFailedException
            if errors.As(err, &ccf) {
                return domain.Errorf(domain.KindNotFound, "product with code %s not found", product.Code)
            }
            return domain.WrapError(domain.KindStorageFailure, "failed to update product", err)
        }
        return nil
    }

    // Code change moves the record to a new partition key. Both writes go
    // through one transaction so a failure cannot leave the product stored
    // under both codes.
    _, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
        TransactItems: []types.TransactWriteItem{
            {
                Put: &types.Put{
                    TableName:           aws.String(s.tableName),
                    Item:                av,
                    ConditionExpression: aws.String("attribute_not_exists(code)"),
                },
            },
            {
                Delete: &types.Delete{
                    TableName: aws.String(s.tableName),
                    Key: map[string]types.AttributeValue{
                        "code": &types.AttributeValueMemberS{Value: prevCode},
                    },
                },
            },
        },
    })
    if err != nil {
        var tce *types.TransactionCanceledException
        if errors.As(err, &tce) {
            for _, reason := range tce.CancellationReasons {
                if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
                    return domain.Errorf(domain.KindDuplicateCode, "product code %s already exists", product.Code)
                }
            }
        }
        return domain.WrapError(domain.KindStorageFailure, "failed to update product", err)
    }

    return nil
}

func (s *DynamoProductStore) Delete(ctx context.Context, id string) error {
    product, err := s.GetByID(ctx, id)
    if err != nil {
        return err
    }

    _, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
        TableName: aws.String(s.tableName),
        Key: map[string]types.AttributeValue{
            "code": &types.AttributeValueMemberS{Value: product.Code},
        },
    })
    if err != nil {
        return domain.WrapError(domain.KindStorageFailure, "failed to delete product", err)
    }

    return nil
}

func (s *DynamoProductStore) AdjustStock(ctx context.Context, code string, delta int) (int, error) {
    code = domain.NormalizeCode(code)

    update := expression.Add(
        expression.Name("stock"),
        expression.Value(delta),
    ).Set(
        expression.Name("updated_at"),
        expression.Value(time.Now().UTC()),
    )

    // The existence condition keeps a positive adjustment against a
    // deleted product from upserting a phantom item.
    cond := expression.AttributeExists(expression.Name("code"))

    // Decrements only go through when the resulting stock stays >= 0.
    if delta < 0 {
        cond = cond.And(expression.GreaterThanEqual(
            expression.Name("stock"),
            expression.Value(-delta),
        ))
    }

    expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
    if err != nil {
        return 0, domain.WrapError(domain.KindStorageFailure, "failed to build stock update", err)
    }

    input := &dynamodb.UpdateItemInput{
        TableName: aws.String(s.tableName),
        Key: map[string]types.AttributeValue{
            "code": &types.AttributeValueMemberS{Value: code},
        },
        ExpressionAttributeNames:  expr.Names(),
        ExpressionAttributeValues: expr.Values(),
        UpdateExpression:          expr.Update(),
        ConditionExpression:       expr.Condition(),
        ReturnValues:              types.ReturnValueAllNew,
        // Populates the item on the conditional failure so a missing
        // product can be told apart from an insufficient-stock reject.
        ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
    }

    result, err := s.client.UpdateItem(ctx, input)
    if err != nil {
        var ccf *types.ConditionalCheckFailedException
        if errors.As(err, &ccf) {
            if len(ccf.Item) == 0 {
                return 0, domain.Errorf(domain.KindNotFound, "product with code %s not found", code)
            }
            return 0, domain.Errorf(domain.KindInsufficientStock, "insufficient stock for %s (requested %d)", code, -delta)
        }
        return 0, domain.WrapError(domain.KindStorageFailure, "failed to adjust stock", err)
    }

    var updated domain.Product
    if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
        return 0, domain.WrapError(domain.KindStorageFailure, "failed to unmarshal adjusted product", err)
    }

    return updated.Stock, nil
}

func (s *DynamoProductStore) List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) (*domain.ProductPage, error) {
    if err := validatePageArgs(page, pageSize); err != nil {
        return nil, err
    }

    input := &dynamodb.ScanInput{
        TableName: aws.String(s.tableName),
    }

    if cond, ok := buildProductFilter(filter); ok {
        expr, err := expression.NewBuilder().WithFilter(cond).Build()
        if err != nil {
            return nil, domain.WrapError(domain.KindStorageFailure, "failed to build product filter", err)
        }
        input.FilterExpression = expr.Filter()
        input.ExpressionAttributeNames = expr.Names()
        input.ExpressionAttributeValues = expr.Values()
    }

    var products []*domain.Product
    paginator := dynamodb.NewScanPaginator(s.client, input)
    for paginator.HasMorePages() {
        out, err := paginator.NextPage(ctx)
        if err != nil {
            return nil, domain.WrapError(domain.KindStorageFailure, "failed to scan products", err)
        }
        var batch []*domain.Product
        if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
            return nil, domain.WrapError(domain.KindStorageFailure, "failed to unmarshal products", err)
        }
        products = append(products, batch...)
    }

    sortProductsNewestFirst(products)

    total := len(products)
    start, end, totalPages := pageBounds(total, page, pageSize)

    return &domain.ProductPage{
        Products:   products[start:end],
        Total:      total,
        Page:       page,
        PageSize:   pageSize,
        TotalPages: totalPages,
    }, nil
}

func buildProductFilter(filter domain.ProductFilter) (expression.ConditionBuilder, bool) {
    var conds []expression.ConditionBuilder

    if filter.Title != "" {
        conds = append(conds, expression.Name("title").Equal(expression.Value(strings.ToUpper(strings.TrimSpace(filter.Title)))))
    }
    if filter.Category != "" {
        conds = append(conds, expression.Name("category").Equal(expression.Value(strings.ToUpper(strings.TrimSpace(filter.Category)))))
    }
    if filter.Status != nil {
        conds = append(conds, expression.Name("status").Equal(expression.Value(*filter.Status)))
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

func sortProductsNewestFirst(products []*domain.Product) {
    sort.SliceStable(products, func(i, j int) bool {
        if products[i].CreatedAt.Equal(products[j].CreatedAt) {
            return products[i].Code < products[j].Code
        }
        return products[i].CreatedAt.After(products[j].CreatedAt)
    })
}
