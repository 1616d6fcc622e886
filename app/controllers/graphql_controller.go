package controllers

import (
	"errors"
	"net/http"
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/pkg/graphql"
)

var fabricType = gql.NewObject(gql.ObjectConfig{
	Name: "Fabric",
	Fields: gql.Fields{
		"id":            &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"name":          &gql.Field{Type: gql.NewNonNull(gql.String)},
		"description":   &gql.Field{Type: gql.String},
		"pricePerMeter": &gql.Field{Type: gql.NewNonNull(gql.Float)},
		"category":      &gql.Field{Type: gql.NewNonNull(gql.String)},
		"color":         &gql.Field{Type: gql.String},
		"material":      &gql.Field{Type: gql.String},
		"width":         &gql.Field{Type: gql.Int},
		"imageUrl":      &gql.Field{Type: gql.String},
		"stock":         &gql.Field{Type: gql.Int},
		"featured":      &gql.Field{Type: gql.Boolean},
		"createdAt":     &gql.Field{Type: gql.String},
		"updatedAt":     &gql.Field{Type: gql.String},
	},
})

func fabricNode(f models.Fabric) map[string]interface{} {
	return map[string]interface{}{
		"id":            int(f.ID),
		"name":          f.Name,
		"description":   f.Description,
		"pricePerMeter": f.PricePerMeter,
		"category":      f.Category,
		"color":         f.Color,
		"material":      f.Material,
		"width":         f.Width,
		"imageUrl":      f.ImageURL,
		"stock":         f.Stock,
		"featured":      f.Featured,
		"createdAt":     f.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":     f.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// NewCatalogSchema exposes the read side of the catalog:
//
//	fabrics(search: String, category: String): [Fabric!]!
//	fabric(id: Int!): Fabric
//	categories: [String!]!
func NewCatalogSchema(catalog *services.Catalog) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"fabrics": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(fabricType))),
				Args: gql.FieldConfigArgument{
					"search":   &gql.ArgumentConfig{Type: gql.String},
					"category": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					category, _ := p.Args["category"].(string)
					fabrics, err := catalog.Search(p.Context, search, category)
					if err != nil {
						return nil, err
					}
					nodes := make([]map[string]interface{}, 0, len(fabrics))
					for _, f := range fabrics {
						nodes = append(nodes, fabricNode(f))
					}
					return nodes, nil
				},
			},
			"fabric": &gql.Field{
				Type: fabricType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					f, err := catalog.Get(p.Context, uint(id))
					if errors.Is(err, models.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return fabricNode(f), nil
				},
			},
			"categories": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(gql.String))),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalog.Categories(p.Context)
				},
			},
		},
	})
	return graphql.NewSchema(query)
}

// GraphQLController serves the catalog schema on /graphql.
type GraphQLController struct {
	handler http.HandlerFunc
}

func NewGraphQLController(catalog *services.Catalog) (*GraphQLController, error) {
	schema, err := NewCatalogSchema(catalog)
	if err != nil {
		return nil, err
	}
	return &GraphQLController{handler: graphql.Handler(schema)}, nil
}

func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	c.handler(w, r)
}
