package sqlinline

const QEnqueuePosterJob = `--sql 105cc49e-a66e-4445-a70b-2b4cf2af1d5a
insert into poster_jobs(
  id,
  user_id,
  idempotency_key,
  status,
  form_json,
  variants,
  attempts,
  created_at,
  updated_at
) values (
  gen_random_uuid(),
  $1::uuid,
  $2::text,
  'queued',
  $3::jsonb,
  $4::int,
  0,
  now(),
  now()
)
on conflict (user_id, idempotency_key) do update set updated_at = poster_jobs.updated_at
returning id, status, (xmax <> 0) as existing;
`

const QSelectJobStatus = `--sql e91a3d6f-9cc5-4720-9bb7-ce2c2a327350
select
  id,
  user_id,
  idempotency_key,
  status,
  variants,
  coalesce(result_json, '[]'::jsonb),
  coalesce(error_message, ''),
  created_at,
  updated_at
from poster_jobs
where id = $1::uuid and user_id = $2::uuid
limit 1;
`

const QSelectJobByKey = `--sql 6b1f0e4c-2d8a-4b7e-9c35-7f2a1d9e0b64
select
  id,
  user_id,
  idempotency_key,
  status,
  variants,
  coalesce(result_json, '[]'::jsonb),
  coalesce(error_message, ''),
  created_at,
  updated_at
from poster_jobs
where user_id = $1::uuid and idempotency_key = $2::text
limit 1;
`
