package mongodb

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ajitpratap0/docqual/pkg/models"
)

// ConvertDocument maps a decoded BSON document onto the profiler's model,
// keeping field order.
func ConvertDocument(raw bson.D) models.Document {
	doc := models.Document{Fields: make([]models.Field, 0, len(raw))}
	for _, e := range raw {
		doc.Fields = append(doc.Fields, models.Field{Name: e.Key, Value: ConvertValue(e.Value)})
	}
	return doc
}

// ConvertValue maps one BSON value onto a tagged models.Value. Nested
// documents and arrays are kept opaque, identified by canonical extended JSON.
func ConvertValue(v interface{}) models.Value {
	switch x := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return models.Null
	case int32:
		return models.Int(int64(x))
	case int64:
		return models.Int(x)
	case int:
		return models.Int(int64(x))
	case float64:
		return models.Float(x)
	case float32:
		return models.Float(float64(x))
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return models.Opaque(models.KindOther, x.String())
		}
		return models.Float(f)
	case string:
		return models.String(x)
	case bool:
		return models.Bool(x)
	case primitive.DateTime:
		return models.Time(x.Time())
	case time.Time:
		return models.Time(x)
	case primitive.Timestamp:
		return models.Time(time.Unix(int64(x.T), 0))
	case primitive.ObjectID:
		return models.Opaque(models.KindObjectID, x.Hex())
	case primitive.Binary:
		return models.Opaque(models.KindBinary, fmt.Sprintf("%d:%s", x.Subtype, hex.EncodeToString(x.Data)))
	case primitive.D:
		return models.Opaque(models.KindObject, canonical(x))
	case primitive.M:
		return models.Opaque(models.KindObject, canonical(x))
	case primitive.A:
		return models.Opaque(models.KindArray, canonical(x))
	}
	return models.Opaque(models.KindOther, canonical(v))
}

// canonical renders v as canonical extended JSON wrapped in a one-field
// document, since top-level arrays and scalars are not valid BSON documents.
func canonical(v interface{}) string {
	b, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, true, false)
	if err != nil {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return string(b)
}
