package handlers

import (
	"sync"

	"github.com/swaggo/swag"

	"apigw-agent-bridge/internal/models"
)

// @title Action Runtime
// @version 1.0
// @description Route handlers served to API Gateway and Amazon Bedrock Agents

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name shop
// @tag.description Sample action group

// @tag.name runtime
// @tag.description Raw event dispatch

// eventsDoc serves the invocation event schemas through the swag registry
type eventsDoc struct{}

// ReadDoc implements swag.Swagger
func (eventsDoc) ReadDoc() string {
	data, err := models.EventsDocumentJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

// actionGroupDoc serves the action group route document
type actionGroupDoc struct{}

// ReadDoc implements swag.Swagger
func (actionGroupDoc) ReadDoc() string {
	doc, err := ActionGroupDocument()
	if err != nil {
		return "{}"
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

var registerDocOnce sync.Once

// RegisterDocs registers the event schema document as the default swag
// instance and the action group document under ActionGroupDocName. swag
// panics on duplicate registration, so this runs once.
func RegisterDocs() {
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, eventsDoc{})
		swag.Register(ActionGroupDocName, actionGroupDoc{})
	})
}
