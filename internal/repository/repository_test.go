package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/query"
	"chronicle/internal/repository"
	"chronicle/internal/testutil"

	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (*gorm.DB, *repository.ActivityLogRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, repository.NewActivityLogRepository(db)
}

func newLog(entityType, entityID, actor string) *models.ActivityLog {
	return &models.ActivityLog{
		Action:        models.ActionUpdate,
		EntityType:    entityType,
		EntityID:      entityID,
		CreatedByID:   actor,
		CreatedByName: actor,
		CreatedAt:     time.Now(),
	}
}

func byID(id string) *query.Specification {
	return query.NewSpecification().And(query.Where("id", query.Eq(id)))
}

func TestCreate(t *testing.T) {
	t.Run("assigns_id_and_timestamp", func(t *testing.T) {
		_, repo := newTestRepo(t)

		entity := newLog("user", "42", "u1")
		entity.CreatedAt = time.Time{}

		created, err := repo.Create(context.Background(), entity)
		testutil.AssertNoError(t, err)

		if created.ID == "" {
			t.Fatal("expected a store-assigned ID")
		}
		if time.Since(created.CreatedAt) > time.Minute {
			t.Errorf("expected createdAt to default to now, got %v", created.CreatedAt)
		}
	})

	t.Run("round_trip_through_find_one", func(t *testing.T) {
		_, repo := newTestRepo(t)

		entity := newLog("user", "42", "u1")
		entity.Action = models.ActionUpdate
		entity.FieldKey = models.StringValue("email")
		entity.FieldValueBefore = models.StringValue("a@x.com")
		entity.FieldValueAfter = models.StringValue("b@x.com")

		created, err := repo.Create(context.Background(), entity)
		testutil.AssertNoError(t, err)

		found, err := repo.FindOne(context.Background(), byID(created.ID))
		testutil.AssertNoError(t, err)
		if found == nil {
			t.Fatal("expected to find the created record")
		}
		if found.ID != created.ID || found.EntityType != "user" || found.EntityID != "42" {
			t.Errorf("round trip mismatch: %+v", found)
		}
		if !found.FieldKey.Equal(models.StringValue("email")) {
			t.Errorf("expected fieldKey email, got %+v", found.FieldKey)
		}
		if !found.FieldValueBefore.Equal(models.StringValue("a@x.com")) {
			t.Errorf("expected before a@x.com, got %+v", found.FieldValueBefore)
		}
		if found.FieldValueAfter == nil || found.FieldValueBefore == nil {
			t.Error("expected optional field values to survive the round trip")
		}
	})

	t.Run("optional_fields_independently_absent", func(t *testing.T) {
		_, repo := newTestRepo(t)

		entity := newLog("brand", "7", "u2")
		entity.FieldValueAfter = models.NumberValue(456)

		created, err := repo.Create(context.Background(), entity)
		testutil.AssertNoError(t, err)

		found, err := repo.FindOne(context.Background(), byID(created.ID))
		testutil.AssertNoError(t, err)
		if found.FieldKey != nil || found.FieldValueBefore != nil {
			t.Errorf("expected absent fields to stay nil, got %+v / %+v", found.FieldKey, found.FieldValueBefore)
		}
		if !found.FieldValueAfter.Equal(models.NumberValue(456)) {
			t.Errorf("expected after 456, got %+v", found.FieldValueAfter)
		}
	})
}

func TestFindOne(t *testing.T) {
	t.Run("absent_is_nil_not_error", func(t *testing.T) {
		_, repo := newTestRepo(t)

		found, err := repo.FindOne(context.Background(), byID("00000000-0000-0000-0000-000000000000"))
		testutil.AssertNoError(t, err)
		if found != nil {
			t.Errorf("expected nil for no match, got %+v", found)
		}
	})
}

func TestFindMany(t *testing.T) {
	t.Run("empty_spec_matches_all", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Create(ctx, newLog("user", fmt.Sprintf("%d", i), "u1"))
			testutil.AssertNoError(t, err)
		}

		all, err := repo.FindMany(ctx, nil)
		testutil.AssertNoError(t, err)
		if len(all) != 3 {
			t.Errorf("expected 3 records, got %d", len(all))
		}

		all, err = repo.FindMany(ctx, query.NewSpecification())
		testutil.AssertNoError(t, err)
		if len(all) != 3 {
			t.Errorf("expected empty specification to match all, got %d", len(all))
		}
	})

	t.Run("no_match_is_empty_slice", func(t *testing.T) {
		_, repo := newTestRepo(t)

		results, err := repo.FindMany(context.Background(),
			query.NewSpecification().And(query.Where("entity_type", query.Eq("nothing"))))
		testutil.AssertNoError(t, err)
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("range_conjunction_on_same_field", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			entity := newLog("user", fmt.Sprintf("%d", i), "u1")
			entity.CreatedAt = base.AddDate(0, 0, i)
			_, err := repo.Create(ctx, entity)
			testutil.AssertNoError(t, err)
		}

		// Day 1 (inclusive) through day 3 (exclusive): both bounds must hold.
		spec := query.NewSpecification().And(query.Where("created_at",
			query.Gte(base.AddDate(0, 0, 1)),
			query.Lt(base.AddDate(0, 0, 3)),
		))
		results, err := repo.FindMany(ctx, spec)
		testutil.AssertNoError(t, err)
		if len(results) != 2 {
			t.Errorf("expected both bounds applied (2 records), got %d", len(results))
		}
	})

	t.Run("in_and_not_in", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		for _, et := range []string{"user", "brand", "influencer"} {
			_, err := repo.Create(ctx, newLog(et, "1", "u1"))
			testutil.AssertNoError(t, err)
		}

		results, err := repo.FindMany(ctx,
			query.NewSpecification().And(query.Where("entity_type", query.In("user", "brand"))))
		testutil.AssertNoError(t, err)
		if len(results) != 2 {
			t.Errorf("expected 2 results for in, got %d", len(results))
		}

		results, err = repo.FindMany(ctx,
			query.NewSpecification().And(query.Where("entity_type", query.NotIn("user", "brand"))))
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].EntityType != "influencer" {
			t.Errorf("expected only influencer for notIn, got %d results", len(results))
		}
	})

	t.Run("case_insensitive_substring_operators", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		alice := newLog("user", "1", "u1")
		alice.CreatedByName = "Alice"
		bob := newLog("user", "2", "u2")
		bob.CreatedByName = "Bob"
		for _, entity := range []*models.ActivityLog{alice, bob} {
			_, err := repo.Create(ctx, entity)
			testutil.AssertNoError(t, err)
		}

		for name, cmp := range map[string]query.Compare{
			"contains":   query.Contains("LIC"),
			"startsWith": query.StartsWith("ali"),
			"endsWith":   query.EndsWith("ICE"),
		} {
			results, err := repo.FindMany(ctx,
				query.NewSpecification().And(query.Where("created_by_name", cmp)))
			testutil.AssertNoError(t, err)
			if len(results) != 1 || results[0].CreatedByName != "Alice" {
				t.Errorf("%s: expected only Alice, got %d results", name, len(results))
			}
		}
	})

	t.Run("is_set_takes_priority", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		withKey := newLog("user", "1", "u1")
		withKey.FieldKey = models.StringValue("email")
		withoutKey := newLog("user", "2", "u2")
		for _, entity := range []*models.ActivityLog{withKey, withoutKey} {
			_, err := repo.Create(ctx, entity)
			testutil.AssertNoError(t, err)
		}

		// The equality comparator would match nothing; isSet overrides it.
		spec := query.NewSpecification().And(query.Where("field_key",
			query.Eq("no-such-serialized-value"),
			query.IsSet(true),
		))
		results, err := repo.FindMany(ctx, spec)
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].EntityID != "1" {
			t.Errorf("expected only the record with a field key, got %d results", len(results))
		}

		spec = query.NewSpecification().And(query.Where("field_key", query.IsSet(false)))
		results, err = repo.FindMany(ctx, spec)
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].EntityID != "2" {
			t.Errorf("expected only the record without a field key, got %d results", len(results))
		}
	})

	t.Run("search_is_disjunctive_across_fields", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		alice := newLog("brand", "1", "u1")
		alice.CreatedByName = "Alice"
		bob := newLog("alicorp", "2", "u2")
		bob.CreatedByName = "Bob"
		carol := newLog("user", "3", "u3")
		carol.CreatedByName = "Carol"
		for _, entity := range []*models.ActivityLog{alice, bob, carol} {
			_, err := repo.Create(ctx, entity)
			testutil.AssertNoError(t, err)
		}

		spec := query.NewSpecification().WithSearch("alic", "created_by_name", "entity_type")
		results, err := repo.FindMany(ctx, spec)
		testutil.AssertNoError(t, err)
		if len(results) != 2 {
			t.Errorf("expected search to match either field (2 records), got %d", len(results))
		}
	})

	t.Run("sort_and_pagination", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			entity := newLog("user", fmt.Sprintf("%d", i), "u1")
			entity.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
			_, err := repo.Create(ctx, entity)
			testutil.AssertNoError(t, err)
		}

		spec := query.NewSpecification().SortBy("created_at", true).Paged(2, 2)
		results, err := repo.FindMany(ctx, spec)
		testutil.AssertNoError(t, err)
		if len(results) != 2 {
			t.Fatalf("expected page of 2, got %d", len(results))
		}
		// Descending: page 2 holds the 3rd and 4th newest.
		if results[0].EntityID != "2" || results[1].EntityID != "1" {
			t.Errorf("unexpected page contents: %s, %s", results[0].EntityID, results[1].EntityID)
		}
	})

	t.Run("skip_take_wins_over_page_limit", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			entity := newLog("user", fmt.Sprintf("%d", i), "u1")
			entity.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
			_, err := repo.Create(ctx, entity)
			testutil.AssertNoError(t, err)
		}

		skip, take, page, limit := 4, 3, 1, 2
		spec := query.NewSpecification().SortBy("created_at", false)
		spec.Pagination = &query.Pagination{Skip: &skip, Take: &take, Page: &page, Limit: &limit}

		results, err := repo.FindMany(ctx, spec)
		testutil.AssertNoError(t, err)
		// skip 4 of 5 leaves 1; page/limit would have returned 2.
		if len(results) != 1 {
			t.Errorf("expected skip/take to take precedence (1 record), got %d", len(results))
		}
	})
}

func TestCount(t *testing.T) {
	t.Run("matches_unpaginated_find_many", func(t *testing.T) {
		db, repo := newTestRepo(t)
		ctx := context.Background()

		for i := 0; i < 4; i++ {
			entityType := "user"
			if i%2 == 0 {
				entityType = "brand"
			}
			testutil.CreateTestActivityLogWith(t, db, &models.ActivityLog{EntityType: entityType})
		}

		spec := query.NewSpecification().
			And(query.Where("entity_type", query.Eq("brand"))).
			Paged(1, 1)

		count, err := repo.Count(ctx, spec)
		testutil.AssertNoError(t, err)

		unpaginated, err := repo.FindMany(ctx, spec.WithoutPagination())
		testutil.AssertNoError(t, err)
		if count != int64(len(unpaginated)) {
			t.Errorf("count %d != unpaginated findMany length %d", count, len(unpaginated))
		}
		if count != 2 {
			t.Errorf("expected 2 brand records, got %d", count)
		}
	})

	t.Run("nil_spec_counts_all", func(t *testing.T) {
		db, repo := newTestRepo(t)
		ctx := context.Background()

		testutil.CreateTestActivityLog(t, db)

		count, err := repo.Count(ctx, nil)
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Errorf("expected 1, got %d", count)
		}
	})
}

func TestExists(t *testing.T) {
	db, repo := newTestRepo(t)
	ctx := context.Background()

	created := testutil.CreateTestActivityLog(t, db)

	ok, err := repo.Exists(ctx, byID(created.ID))
	testutil.AssertNoError(t, err)
	if !ok {
		t.Error("expected exists to be true for a stored record")
	}

	ok, err = repo.Exists(ctx, byID("00000000-0000-0000-0000-000000000000"))
	testutil.AssertNoError(t, err)
	if ok {
		t.Error("expected exists to be false for an absent record")
	}
}

func TestUpdate(t *testing.T) {
	t.Run("replaces_and_returns_stored_value", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, newLog("user", "1", "u1"))
		testutil.AssertNoError(t, err)

		created.EntityID = "99"
		created.FieldValueAfter = models.BoolValue(true)
		updated, err := repo.Update(ctx, created)
		testutil.AssertNoError(t, err)

		if updated.ID != created.ID {
			t.Errorf("expected identifier to be immutable, got %s", updated.ID)
		}
		if updated.EntityID != "99" {
			t.Errorf("expected updated entityId 99, got %s", updated.EntityID)
		}
		if !updated.FieldValueAfter.Equal(models.BoolValue(true)) {
			t.Errorf("expected updated after value, got %+v", updated.FieldValueAfter)
		}
	})

	t.Run("missing_identifier_fails_not_found", func(t *testing.T) {
		_, repo := newTestRepo(t)

		ghost := newLog("user", "1", "u1")
		ghost.ID = "00000000-0000-0000-0000-000000000000"
		_, err := repo.Update(context.Background(), ghost)
		testutil.AssertAppError(t, err, "NOT_FOUND")
	})
}

func TestDelete(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, newLog("user", "1", "u1"))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, repo.Delete(ctx, created.ID))
		// Second delete of the same identifier is a silent no-op.
		testutil.AssertNoError(t, repo.Delete(ctx, created.ID))

		found, err := repo.FindOne(ctx, byID(created.ID))
		testutil.AssertNoError(t, err)
		if found != nil {
			t.Error("expected record to be gone")
		}
	})
}

func TestCreateMany(t *testing.T) {
	t.Run("empty_batch_is_noop", func(t *testing.T) {
		_, repo := newTestRepo(t)

		created, err := repo.CreateMany(context.Background(), nil)
		testutil.AssertNoError(t, err)
		if len(created) != 0 {
			t.Errorf("expected empty result, got %d", len(created))
		}
	})

	t.Run("returns_persisted_entities", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		batch := []*models.ActivityLog{
			newLog("user", "1", "u1"),
			newLog("user", "2", "u1"),
			newLog("brand", "3", "u2"),
		}
		created, err := repo.CreateMany(ctx, batch)
		testutil.AssertNoError(t, err)
		if len(created) != 3 {
			t.Fatalf("expected 3 created entities, got %d", len(created))
		}
		for _, entity := range created {
			if entity.ID == "" {
				t.Error("expected each entity to carry a store-assigned ID")
			}
		}

		count, err := repo.Count(ctx, nil)
		testutil.AssertNoError(t, err)
		if count != 3 {
			t.Errorf("expected 3 stored records, got %d", count)
		}
	})
}

func TestUpdateMany(t *testing.T) {
	t.Run("empty_batch_is_noop", func(t *testing.T) {
		_, repo := newTestRepo(t)

		updated, err := repo.UpdateMany(context.Background(), nil)
		testutil.AssertNoError(t, err)
		if len(updated) != 0 {
			t.Errorf("expected empty result, got %d", len(updated))
		}
	})

	t.Run("silently_drops_missing_identifiers", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		first, err := repo.Create(ctx, newLog("user", "1", "u1"))
		testutil.AssertNoError(t, err)
		second, err := repo.Create(ctx, newLog("user", "2", "u1"))
		testutil.AssertNoError(t, err)

		ghost := newLog("user", "3", "u1")
		ghost.ID = "00000000-0000-0000-0000-000000000000"

		first.EntityType = "brand"
		second.EntityType = "brand"
		updated, err := repo.UpdateMany(ctx, []*models.ActivityLog{first, ghost, second})
		testutil.AssertNoError(t, err)
		if len(updated) != 2 {
			t.Errorf("expected 2 updated entities with the ghost dropped, got %d", len(updated))
		}
		for _, entity := range updated {
			if entity.EntityType != "brand" {
				t.Errorf("expected entityType brand, got %s", entity.EntityType)
			}
		}
	})
}

func TestDeleteMany(t *testing.T) {
	t.Run("empty_set_is_noop", func(t *testing.T) {
		_, repo := newTestRepo(t)
		testutil.AssertNoError(t, repo.DeleteMany(context.Background(), nil))
	})

	t.Run("removes_present_ignores_absent", func(t *testing.T) {
		_, repo := newTestRepo(t)
		ctx := context.Background()

		first, err := repo.Create(ctx, newLog("user", "1", "u1"))
		testutil.AssertNoError(t, err)
		second, err := repo.Create(ctx, newLog("user", "2", "u1"))
		testutil.AssertNoError(t, err)
		third, err := repo.Create(ctx, newLog("user", "3", "u1"))
		testutil.AssertNoError(t, err)

		err = repo.DeleteMany(ctx, []string{first.ID, second.ID, "00000000-0000-0000-0000-000000000000"})
		testutil.AssertNoError(t, err)

		count, err := repo.Count(ctx, nil)
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Errorf("expected only one record left, got %d", count)
		}
		remaining, err := repo.FindOne(ctx, byID(third.ID))
		testutil.AssertNoError(t, err)
		if remaining == nil {
			t.Error("expected the unrelated record to survive")
		}
	})
}

func TestList(t *testing.T) {
	t.Run("total_and_filtered_counts", func(t *testing.T) {
		db, repo := newTestRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			entityType := "user"
			if i < 2 {
				entityType = "brand"
			}
			testutil.CreateTestActivityLogWith(t, db, &models.ActivityLog{EntityType: entityType})
		}

		spec := query.NewSpecification().
			And(query.Where("entity_type", query.Eq("brand"))).
			Paged(1, 1)

		result, err := repo.List(ctx, spec)
		testutil.AssertNoError(t, err)

		if result.Total != 5 {
			t.Errorf("expected total 5, got %d", result.Total)
		}
		if result.TotalFiltered != 2 {
			t.Errorf("expected totalFiltered 2 (pagination excluded), got %d", result.TotalFiltered)
		}
		if len(result.Data) != 1 {
			t.Errorf("expected paginated data of 1, got %d", len(result.Data))
		}
	})

	t.Run("nil_spec", func(t *testing.T) {
		db, repo := newTestRepo(t)
		ctx := context.Background()

		testutil.CreateTestActivityLog(t, db)

		result, err := repo.List(ctx, nil)
		testutil.AssertNoError(t, err)
		if result.Total != 1 || result.TotalFiltered != 1 || len(result.Data) != 1 {
			t.Errorf("expected 1/1/1, got %d/%d/%d", result.Total, result.TotalFiltered, len(result.Data))
		}
	})
}
