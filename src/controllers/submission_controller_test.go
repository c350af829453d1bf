package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toBsonD(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	assert.NoError(t, err)
	var d bson.D
	assert.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func pdfUploadRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="policy.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7\n%%EOF\n"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// An upload against a submission that is not bound is rejected; the
// rejection must not leave the stored PDF behind in the upload dir.
func TestUploadFinalDocumentRejectionLeavesNoFile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("NotBound", func(mt *mtest.T) {
		dir := mt.TempDir()
		mt.Setenv("UPLOAD_DIR", dir)

		DB.SubmissionCollection = mt.DB.Collection("submissions")

		subID := primitive.NewObjectID()
		sub := models.Submission{ID: subID, Status: models.SubmissionQuoted}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.submissions", mtest.FirstBatch, toBsonD(mt.T, sub)),
		)

		app := fiber.New()
		app.Post("/submissions/:id/final-documents/:slot", UploadFinalDocument)

		req := pdfUploadRequest(mt.T, "/submissions/"+subID.Hex()+"/final-documents/policy")
		res, err := app.Test(req, -1)
		assert.NoError(mt.T, err)
		assert.Equal(mt.T, fiber.StatusUnprocessableEntity, res.StatusCode)

		entries, err := os.ReadDir(dir)
		assert.NoError(mt.T, err)
		assert.Empty(mt.T, entries)
	})
}
