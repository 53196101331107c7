package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/FireKid846/TG-bot/internal/repository"
	"github.com/FireKid846/TG-bot/internal/testutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestS3_Fetch(t *testing.T) {
	tests := []struct {
		name          string
		mockOutput    *s3.GetObjectOutput
		mockError     error
		expected      string
		expectedErrIs error
		expectedError bool
	}{
		{
			name: "object exists",
			mockOutput: &s3.GetObjectOutput{
				Body: io.NopCloser(bytes.NewReader([]byte(`{"cooldown":3}`))),
				ETag: aws.String(`"etag-1"`),
			},
			expected: `{"cooldown":3}`,
		},
		{
			name:          "no such key",
			mockError:     &types.NoSuchKey{},
			expectedErrIs: repository.ErrNotFound,
			expectedError: true,
		},
		{
			name:          "network error",
			mockError:     fmt.Errorf("dial tcp: timeout"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(testutil.MockS3API)
			client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
				return aws.ToString(in.Bucket) == "bucket" && aws.ToString(in.Key) == "config.json"
			})).Return(tt.mockOutput, tt.mockError)

			m := NewS3(client, "bucket", "config.json")

			snapshot, err := m.Fetch(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
				if tt.expectedErrIs != nil {
					assert.ErrorIs(t, err, tt.expectedErrIs)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, string(snapshot.Content))
				assert.Equal(t, `"etag-1"`, snapshot.Revision)
			}

			client.AssertExpectations(t)
		})
	}
}

func TestS3_Push(t *testing.T) {
	client := new(testutil.MockS3API)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Key) == "config.json" && string(body) == "payload"
	})).Return(&s3.PutObjectOutput{}, nil)

	m := NewS3(client, "bucket", "config.json")

	err := m.Push(context.Background(), []byte("payload"))

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestS3_PushError(t *testing.T) {
	client := new(testutil.MockS3API)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("access denied"))

	m := NewS3(client, "bucket", "config.json")

	err := m.Push(context.Background(), []byte("payload"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
