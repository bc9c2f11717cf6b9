package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>photos</Name>
  <Prefix>hbnb/places/p1/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>hbnb/places/p1/a.jpg</Key><Size>10</Size><LastModified>2026-01-02T03:04:05.000Z</LastModified></Contents>
  <Contents><Key>hbnb/places/p1/b.png</Key><Size>20</Size><LastModified>2026-01-02T03:04:06.000Z</LastModified></Contents>
</ListBucketResult>`

func newTestService(endpoint string) *S3Service {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})
	return NewS3Service(client)
}

func TestListObjects(t *testing.T) {
	var gotPath, gotPrefix string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefix = r.URL.Query().Get("prefix")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(listResponse))
	}))
	defer srv.Close()

	objects, err := newTestService(srv.URL).ListObjects(context.Background(), "photos", "hbnb/places/p1/")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotPath, "/photos"), gotPath)
	assert.Equal(t, "hbnb/places/p1/", gotPrefix)

	require.Len(t, objects, 2)
	assert.Equal(t, "hbnb/places/p1/a.jpg", objects[0].Key)
	assert.Equal(t, int64(20), objects[1].Size)
	require.NotNil(t, objects[0].LastModified)
	assert.Equal(t, 2026, objects[0].LastModified.Year())
}

const deleteResponse = `<?xml version="1.0" encoding="UTF-8"?>
<DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></DeleteResult>`

func TestDeletePrefixBatchesListedKeys(t *testing.T) {
	var deleteBody string
	var deletes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		if r.Method == http.MethodPost {
			deletes++
			body, _ := io.ReadAll(r.Body)
			deleteBody = string(body)
			_, _ = w.Write([]byte(deleteResponse))
			return
		}
		_, _ = w.Write([]byte(listResponse))
	}))
	defer srv.Close()

	err := newTestService(srv.URL).DeletePrefix(context.Background(), "photos", "hbnb/places/p1/")
	require.NoError(t, err)
	assert.Equal(t, 1, deletes)
	assert.Contains(t, deleteBody, "<Key>hbnb/places/p1/a.jpg</Key>")
	assert.Contains(t, deleteBody, "<Key>hbnb/places/p1/b.png</Key>")
}

func TestGetObjectURLIsPresigned(t *testing.T) {
	svc := newTestService("http://localhost:9000")

	url, err := svc.GetObjectURL(context.Background(), "photos", "hbnb/places/p1/a.jpg", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/photos/hbnb/places/p1/a.jpg?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=300")
}

func TestRequiresBucketAndKey(t *testing.T) {
	svc := newTestService("http://localhost:9000")
	ctx := context.Background()

	_, err := svc.PutObject(ctx, strings.NewReader("x"), PutOptions{Key: "k"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = svc.PutObject(ctx, strings.NewReader("x"), PutOptions{Bucket: "photos", Key: "/"})
	assert.ErrorContains(t, err, "key is required")

	_, err = svc.ListObjects(ctx, "", "p")
	assert.ErrorContains(t, err, "bucket is required")

	_, err = svc.ListObjects(ctx, "photos", "")
	assert.ErrorContains(t, err, "prefix is required")

	assert.ErrorContains(t, svc.DeletePrefix(ctx, "photos", "  "), "prefix is required")

	_, err = svc.GetObjectURL(ctx, "", "k", time.Minute)
	assert.Error(t, err)
}
