package ad

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ( // Interfaces
	IMongoCollection interface {
		InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (IMongoInsertOneResult, error)
		UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (IMongoUpdateResult, error)
		FindOne(context.Context, interface{}, ...*options.FindOneOptions) IMongoSingleResult
		Find(context.Context, interface{}, ...*options.FindOptions) (IMongoCursor, error)
	}

	IMongoCursor interface {
		Close(context.Context) error
		All(context.Context, interface{}) error
	}

	IMongoSingleResult    interface{ Decode(interface{}) error }
	IMongoInsertOneResult interface{}
	IMongoUpdateResult    interface{ MatchedCount() int64 }
)

type ( // Structs
	MongoCursor struct{ cur *mongo.Cursor }

	MongoCollection struct {
		Coll *mongo.Collection
	}

	MongoSingleResult    struct{ res *mongo.SingleResult }
	MongoInsertOneResult struct{ res *mongo.InsertOneResult }
	MongoUpdateResult    struct{ res *mongo.UpdateResult }
)

// MongoSingleResult

func (sr *MongoSingleResult) Decode(v interface{}) error {
	return sr.res.Decode(v)
}

// MongoUpdateResult

func (ur *MongoUpdateResult) MatchedCount() int64 {
	return ur.res.MatchedCount
}

// MongoCursor

func (cur *MongoCursor) Close(ctx context.Context) error {
	return cur.cur.Close(ctx)
}
func (cur *MongoCursor) All(ctx context.Context, ads interface{}) error {
	return cur.cur.All(ctx, ads)
}

// MongoCollection

func (col *MongoCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (IMongoInsertOneResult, error) {
	insertOneResult, err := col.Coll.InsertOne(ctx, document, opts...)
	if err != nil {
		return nil, err
	}
	return &MongoInsertOneResult{res: insertOneResult}, nil
}

func (col *MongoCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (IMongoUpdateResult, error) {
	updateResult, err := col.Coll.UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return nil, err
	}
	return &MongoUpdateResult{res: updateResult}, nil
}

func (col *MongoCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) IMongoSingleResult {
	singleResult := col.Coll.FindOne(ctx, filter, opts...)
	return &MongoSingleResult{res: singleResult}
}

func (col *MongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (IMongoCursor, error) {
	cursorResult, err := col.Coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &MongoCursor{cur: cursorResult}, nil
}
