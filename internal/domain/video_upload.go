package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoUpload stores metadata about a demo video a trainer uploaded for an
// exercise. The actual file resides in S3; only the object key is kept here.
type VideoUpload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	UploaderID  primitive.ObjectID `bson:"uploaderId" json:"uploaderId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Internal use only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
