package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"recipient_id",
			"reservation_id",
			"event_type",
			"message",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"recipient_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"reservation_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"event_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"message": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"read": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
