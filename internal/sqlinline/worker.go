package sqlinline

const QWorkerClaimJob = `--sql 4f55a9b7-4e9f-4e45-a3b3-5a532d21d9db
with next_job as (
    select id
    from poster_jobs
    where status = 'queued'
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update poster_jobs
    set status = 'running', attempts = attempts + 1, updated_at = now()
    where id in (select id from next_job)
    returning id, user_id, idempotency_key, form_json, variants
)
select id, user_id, idempotency_key, form_json, variants from updated;
`

const QCompleteJob = `--sql d9a993b3-a63a-4193-9f0f-d31fb89886f8
update poster_jobs
set status = $2::text,
    result_json = $3::jsonb,
    error_message = nullif($4::text, ''),
    updated_at = now()
where id = $1::uuid;
`

// QRequeueStaleJobs returns jobs stuck in running back to the queue, e.g.
// after a worker crash.
const QRequeueStaleJobs = `--sql b36024e8-b8e2-493b-bdad-a78cb3a3b6f5
update poster_jobs
set status = 'queued', updated_at = now()
where status = 'running'
  and updated_at < now() - make_interval(secs => $1::int)
  and attempts < 3;
`

// QFailStaleJobs gives up on running jobs that exhausted their attempts and
// returns them so their credits can be refunded.
const QFailStaleJobs = `--sql 0c6e2a1f-5d7b-4c1e-9a8f-3e2b7d9c4f10
update poster_jobs
set status = 'failed',
    error_message = 'worker did not finish the job',
    updated_at = now()
where status = 'running'
  and updated_at < now() - make_interval(secs => $1::int)
  and attempts >= 3
returning id, user_id, idempotency_key, variants;
`
