package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kinship/internal/models"
)

// Neo4jMirror copies saved family trees into Neo4j as (:Person)-[:RELATED]->(:Person).
// The document store stays the source of truth; the graph is rebuilt per owner on every save.
type Neo4jMirror struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jMirror connects to Neo4j and verifies connectivity
func NewNeo4jMirror(uri, username, password, dbName string) (*Neo4jMirror, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jMirror{driver: driver, dbName: dbName}, nil
}

func (m *Neo4jMirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// SyncTree replaces the owner's subgraph with the tree's members and edges
func (m *Neo4jMirror) SyncTree(ctx context.Context, tree *models.Tree) error {
	session := m.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: m.dbName})
	defer session.Close(ctx)

	params := treeParams(tree)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, removeStaleQuery, params); err != nil {
			return nil, fmt.Errorf("remove stale members: %w", err)
		}
		if _, err := tx.Run(ctx, clearEdgesQuery, params); err != nil {
			return nil, fmt.Errorf("clear edges: %w", err)
		}
		if _, err := tx.Run(ctx, mergeMembersQuery, params); err != nil {
			return nil, fmt.Errorf("merge members: %w", err)
		}
		if _, err := tx.Run(ctx, mergeEdgesQuery, params); err != nil {
			return nil, fmt.Errorf("merge edges: %w", err)
		}
		return nil, nil
	})
	return err
}

const removeStaleQuery = `
	MATCH (p:Person {owner: $owner})
	WHERE NOT p.id IN $ids
	DETACH DELETE p
`

const clearEdgesQuery = `
	MATCH (:Person {owner: $owner})-[r:RELATED]->(:Person {owner: $owner})
	DELETE r
`

const mergeMembersQuery = `
	UNWIND $members AS m
	MERGE (p:Person {owner: $owner, id: m.id})
	SET p.full_name = m.full_name,
		p.gender = m.gender,
		p.birth_date = m.birth_date,
		p.birth_place = m.birth_place,
		p.relationship_to_user = m.relationship_to_user
`

// Edges whose endpoints are not members are skipped by the MATCH.
const mergeEdgesQuery = `
	UNWIND $edges AS e
	MATCH (a:Person {owner: $owner, id: e.from})
	MATCH (b:Person {owner: $owner, id: e.to})
	MERGE (a)-[r:RELATED {relation: e.relation}]->(b)
`

func treeParams(tree *models.Tree) map[string]any {
	ids := make([]any, 0, len(tree.Members))
	members := make([]any, 0, len(tree.Members))
	for _, mem := range tree.Members {
		if mem.ID == "" {
			continue
		}
		ids = append(ids, mem.ID)
		members = append(members, map[string]any{
			"id":                   mem.ID,
			"full_name":            mem.FullName,
			"gender":               mem.Gender,
			"birth_date":           mem.BirthDate,
			"birth_place":          mem.BirthPlace,
			"relationship_to_user": mem.RelationshipToUser,
		})
	}

	edges := make([]any, 0, len(tree.Edges))
	for _, e := range tree.Edges {
		edges = append(edges, map[string]any{
			"from":     e.FromID,
			"to":       e.ToID,
			"relation": string(e.Relation),
		})
	}

	return map[string]any{
		"owner":   tree.OwnerUserID,
		"ids":     ids,
		"members": members,
		"edges":   edges,
	}
}
