package validators

import "go.mongodb.org/mongo-driver/bson"

var HotelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"city",
			"country",
			"rooms",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"country": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"rooms": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"room_id", "capacity", "price_per_night"},
					"properties": bson.M{
						"room_id": bson.M{
							"bsonType":  "string",
							"minLength": 1,
						},
						"type": bson.M{
							"bsonType": "string",
						},
						"capacity": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  50,
						},
						"price_per_night": bson.M{
							"bsonType": "double",
							"minimum":  0,
						},
						"available": bson.M{
							"bsonType": "bool",
						},
					},
				},
			},
		},
	},
}
